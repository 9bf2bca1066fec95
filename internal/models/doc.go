// package models defines the data model for the geolist enrichment pipeline:
// the artist-keyed library, origin descriptors, coordinates, and the raw
// Spotify input types consumed by the library builder.
package models
