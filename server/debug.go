// File: server/debug.go
package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/vtan/mmo/game"
	"github.com/vtan/mmo/render"
)

// HandleDebugRooms lists the latest snapshot of every active room as JSON.
func (s *Server) HandleDebugRooms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snaps := s.srv.Snapshots()
		sort.Slice(snaps, func(i, j int) bool { return snaps[i].RoomID < snaps[j].RoomID })
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snaps); err != nil {
			s.log.WithError(err).Error("Failed to write room snapshots")
		}
	}
}

// HandleDebugRoom draws one room as ASCII: walls, portals and the entities
// from its latest snapshot.
func (s *Server) HandleDebugRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}
		roomMap, ok := s.srv.Maps[game.RoomID(id)]
		if !ok {
			http.Error(w, "no such room", http.StatusNotFound)
			return
		}
		snap, ok := s.srv.Snapshot(game.RoomID(id))
		if !ok {
			http.Error(w, "room not active", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte(render.RoomToASCII(roomMap, snap))); err != nil {
			s.log.WithError(err).Error("Failed to write room render")
		}
	}
}
