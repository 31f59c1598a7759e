package repository

import (
	"encoding/json"
	"errors"

	"github.com/dom/patch-meta/internal/domain"
)

// snapshotBlob is the serialized body of a stored snapshot. Version and
// fetch time live in their own columns.
type snapshotBlob struct {
	Champions  []domain.ChampionStats  `json:"champions"`
	PatchNotes []domain.PatchNoteEntry `json:"patch_notes"`
}

// EncodeSnapshot serializes the champions and notes of a snapshot.
func EncodeSnapshot(s *domain.PatchSnapshot) ([]byte, error) {
	blob := snapshotBlob{Champions: s.Champions, PatchNotes: s.PatchNotes}
	if blob.Champions == nil {
		blob.Champions = []domain.ChampionStats{}
	}
	if blob.PatchNotes == nil {
		blob.PatchNotes = []domain.PatchNoteEntry{}
	}
	data, err := json.Marshal(blob)
	if err != nil {
		return nil, &domain.SerializationError{Version: s.Version, Op: "encode", Err: err}
	}
	return data, nil
}

// DecodeSnapshot rebuilds the champions and notes of a stored snapshot into s.
// Older rows stored a bare champion array and are still accepted.
func DecodeSnapshot(s *domain.PatchSnapshot, data []byte) error {
	var blob snapshotBlob
	err := json.Unmarshal(data, &blob)
	if err != nil {
		var legacy []domain.ChampionStats
		if legacyErr := json.Unmarshal(data, &legacy); legacyErr != nil {
			return &domain.SerializationError{Version: s.Version, Op: "decode", Err: errors.Join(err, legacyErr)}
		}
		blob = snapshotBlob{Champions: legacy}
	}

	s.Champions = blob.Champions
	s.PatchNotes = blob.PatchNotes
	if s.Champions == nil {
		s.Champions = []domain.ChampionStats{}
	}
	if s.PatchNotes == nil {
		s.PatchNotes = []domain.PatchNoteEntry{}
	}
	return nil
}
