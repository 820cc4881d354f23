package pipeline

import (
	"log"

	"github.com/umn-mobility/daynamica-go/internal/models"
	"github.com/umn-mobility/daynamica-go/internal/spatial"
)

// ActivitySpaces decodes the centroid of every valid activity item and
// computes the per person-day convex hull and deviational ellipse. Items
// whose centroid cannot be decoded are dropped with a count in the log.
func (p *Pipeline) ActivitySpaces(valid *ValidSet) ([]models.ConvexHullRow, []models.SDERow) {
	points := make([]spatial.ActivityPoint, 0, len(valid.ActivityItems))
	dropped := 0
	for i := range valid.ActivityItems {
		it := &valid.ActivityItems[i]
		coord, ok := spatial.DecodeCentroid(it.Centroid)
		if !ok {
			dropped++
			continue
		}
		start := p.cfg.EpochToTime(it.StartTimestamp).In(p.loc)
		points = append(points, spatial.ActivityPoint{
			UserID: it.UserID,
			Date:   models.NewDate(start),
			Coord:  coord,
		})
	}
	if dropped > 0 {
		log.Printf("[ActivitySpace] dropped %d items with undecodable centroids", dropped)
	}
	return spatial.ActivitySpaces(points, p.cfg.ActivitySpace.BufferMeters)
}
