package services

import (
	"errors"
	"sort"

	"github.com/sirupsen/logrus"

	"tinker-realm/editor/models"
	"tinker-realm/editor/persistence"
)

// TriggerMarker is the single entry recorded in UsedTriggers when any
// scanned area holds a trigger.
const TriggerMarker = "trigger"

// UsedAssets is the union of asset identifiers referenced by a set of areas.
type UsedAssets struct {
	Tiles    []string
	NPCs     []string
	Objects  []string
	Triggers []string
}

type assetSets struct {
	tiles, npcs, objects map[string]struct{}
	hasTrigger           bool
}

func (s *assetSets) add(a *models.Area, npcs models.Classifier) {
	for _, row := range a.Tiles {
		for _, t := range row {
			if !t.IsEmpty() {
				s.tiles[t.Type] = struct{}{}
			}
		}
	}
	for _, o := range a.Objects {
		if o.Type == "" {
			continue
		}
		if npcs.IsNPC(o.Type) {
			s.npcs[o.Type] = struct{}{}
		} else {
			s.objects[o.Type] = struct{}{}
		}
	}
	if len(a.Triggers) > 0 {
		s.hasTrigger = true
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// AggregateUsedAssets unions the assets of current and of every area file
// that loader can read. Missing files are skipped silently; unreadable or
// malformed ones are logged and skipped.
func AggregateUsedAssets(loader persistence.AreaLoader, files []string, current *models.Area, npcs models.Classifier, log logrus.FieldLogger) UsedAssets {
	sets := assetSets{
		tiles:   map[string]struct{}{},
		npcs:    map[string]struct{}{},
		objects: map[string]struct{}{},
	}
	if current != nil {
		sets.add(current, npcs)
	}
	for _, file := range files {
		area, err := loader.LoadArea(file)
		if errors.Is(err, persistence.ErrNotFound) {
			continue
		}
		if err != nil {
			log.WithError(err).WithField("file", file).Warn("Skipping unreadable area during asset scan")
			continue
		}
		sets.add(area, npcs)
	}

	used := UsedAssets{
		Tiles:    sortedKeys(sets.tiles),
		NPCs:     sortedKeys(sets.npcs),
		Objects:  sortedKeys(sets.objects),
		Triggers: []string{},
	}
	if sets.hasTrigger {
		used.Triggers = []string{TriggerMarker}
	}
	return used
}

// RescanUsedAssets recomputes the game's used_* lists from the current area
// and every area the game references, replacing the previous lists.
func (s *EditorSession) RescanUsedAssets() UsedAssets {
	used := AggregateUsedAssets(s.db, s.game.Areas, s.area, s.Classifier(), s.log)
	s.game.UsedTiles = used.Tiles
	s.game.UsedNPCs = used.NPCs
	s.game.UsedObjects = used.Objects
	s.game.UsedTriggers = used.Triggers

	s.log.WithFields(logrus.Fields{
		"tiles":    len(used.Tiles),
		"npcs":     len(used.NPCs),
		"objects":  len(used.Objects),
		"triggers": len(used.Triggers),
	}).Info("Game assets updated")
	return used
}
