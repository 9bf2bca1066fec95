package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/geolist/internal/models"
)

var (
	_ list.Item = groupItem{}
)

// groupItem wraps [models.CoordinateGroup] to implement [list.Item].
type groupItem struct {
	group models.CoordinateGroup
}

func (i groupItem) FilterValue() string { return strings.Join(i.group.Artists, " ") }
func (i groupItem) Title() string {
	return fmt.Sprintf("%.4f, %.4f", i.group.Coordinate.Lat, i.group.Coordinate.Lng)
}

func (i groupItem) Description() string {
	desc := strings.Join(i.group.Artists, ", ")
	if len(desc) > 80 {
		desc = desc[:77] + "..."
	}
	return fmt.Sprintf("%d artists • %s", len(i.group.Artists), desc)
}
