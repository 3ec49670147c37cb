package jobs

import (
	"log"
	"time"

	"github.com/avinash2305/wellness_platform/database"
	"github.com/avinash2305/wellness_platform/models"
)

// TransitionSessionStatuses moves sessions along the
// UPCOMING -> ONGOING -> COMPLETED lifecycle based on wall-clock time.
// Cancelled sessions are never touched.
func TransitionSessionStatuses() {
	now := time.Now()

	started := database.DB.Model(&models.Session{}).
		Where("status = ? AND start_time <= ?", models.SessionStatusUpcoming, now).
		Update("status", models.SessionStatusOngoing)
	if started.Error != nil {
		log.Printf("Error starting sessions: %v", started.Error)
	} else if started.RowsAffected > 0 {
		log.Printf("Marked %d session(s) as ongoing.", started.RowsAffected)
	}

	completed := database.DB.Model(&models.Session{}).
		Where("status = ? AND end_time <= ?", models.SessionStatusOngoing, now).
		Update("status", models.SessionStatusCompleted)
	if completed.Error != nil {
		log.Printf("Error completing sessions: %v", completed.Error)
	} else if completed.RowsAffected > 0 {
		log.Printf("Marked %d session(s) as completed.", completed.RowsAffected)
	}
}
