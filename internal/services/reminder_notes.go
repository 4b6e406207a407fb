package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/terraincognita07/cyclemate/internal/models"
)

const maxReminderNoteLength = 500

// AddReminderNote appends a note with a fresh id. Blank text is ignored.
func AddReminderNote(record models.ReminderRecord, noteType string, text string) (models.ReminderRecord, models.ReminderNote, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return record, models.ReminderNote{}, false
	}
	if len([]rune(trimmed)) > maxReminderNoteLength {
		trimmed = string([]rune(trimmed)[:maxReminderNoteLength])
	}

	note := models.ReminderNote{
		ID:   uuid.NewString(),
		Type: strings.TrimSpace(noteType),
		Text: trimmed,
	}
	if note.Type == "" {
		note.Type = "idea"
	}

	updated := cloneReminderRecord(record)
	updated.Notes = append(updated.Notes, note)
	return updated, note, true
}

func RemoveReminderNote(record models.ReminderRecord, noteID string) models.ReminderRecord {
	updated := cloneReminderRecord(record)
	notes := make([]models.ReminderNote, 0, len(updated.Notes))
	for _, note := range updated.Notes {
		if note.ID != noteID {
			notes = append(notes, note)
		}
	}
	updated.Notes = notes
	return updated
}
