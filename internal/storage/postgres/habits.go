package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
)

const habitColumns = "id, title, motivation, color, type, is_weekly, creation_date, archived_at, deleted_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) AddHabit(habit models.Habit) error {
	return s.UpdateHabit(habit)
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT `+habitColumns+`
		FROM habits WHERE id = $1 AND deleted_at IS NULL`, id)
	return s.loadHabit(row, id)
}

// GetHabitByTitle matches titles case-insensitively. When several live habits
// share a title the oldest one is returned.
func (s *Store) GetHabitByTitle(title string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT `+habitColumns+`
		FROM habits WHERE LOWER(title) = LOWER($1) AND deleted_at IS NULL
		ORDER BY creation_date LIMIT 1`, title)
	return s.loadHabit(row, title)
}

func (s *Store) loadHabit(row rowScanner, ref string) (models.Habit, error) {
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("%w: %s", storage.ErrHabitNotFound, ref)
	}
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.loadHistory(&h); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE 1=1"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY creation_date"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range habits {
		if err := s.loadHistory(&habits[i]); err != nil {
			return nil, err
		}
	}
	return habits, nil
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var habitType, creationDate string
	var archivedAt, deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.Title, &h.Motivation, &h.Color, &habitType, &h.IsWeekly, &creationDate, &archivedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Type = models.ParseHabitType(habitType)
	if h.CreationDate, err = storage.ParseTime("creation_date", creationDate); err != nil {
		return models.Habit{}, err
	}
	if h.ArchivedAt, err = storage.ParseNullTime("archived_at", archivedAt); err != nil {
		return models.Habit{}, err
	}
	if h.DeletedAt, err = storage.ParseNullTime("deleted_at", deletedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

// loadHistory fills completions, counters and durations of h
func (s *Store) loadHistory(h *models.Habit) error {
	rows, err := s.db.Query("SELECT completed_at FROM habit_completions WHERE habit_id = $1 ORDER BY completed_at", h.ID)
	if err != nil {
		return err
	}
	h.CompletedDates = []time.Time{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			rows.Close()
			return err
		}
		t, err := storage.ParseTime("completed_at", value)
		if err != nil {
			rows.Close()
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
		h.CompletedDates = append(h.CompletedDates, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query("SELECT day, count FROM habit_counters WHERE habit_id = $1", h.ID)
	if err != nil {
		return err
	}
	h.DailyCounters = make(map[string]int)
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			rows.Close()
			return err
		}
		h.DailyCounters[day] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query(`
		SELECT minutes, effective_date, expiration_date
		FROM habit_durations WHERE habit_id = $1 ORDER BY position`, h.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	h.DurationHistory = []models.HabitDuration{}
	for rows.Next() {
		var d models.HabitDuration
		var effective string
		var expiration sql.NullString
		if err := rows.Scan(&d.Minutes, &effective, &expiration); err != nil {
			return err
		}
		if d.EffectiveDate, err = storage.ParseTime("effective_date", effective); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
		if d.ExpirationDate, err = storage.ParseNullTime("expiration_date", expiration); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
		h.DurationHistory = append(h.DurationHistory, d)
	}
	return rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			motivation = EXCLUDED.motivation,
			color = EXCLUDED.color,
			type = EXCLUDED.type,
			is_weekly = EXCLUDED.is_weekly,
			creation_date = EXCLUDED.creation_date,
			archived_at = EXCLUDED.archived_at,
			deleted_at = EXCLUDED.deleted_at`,
		habit.ID, habit.Title, habit.Motivation, habit.ColorOrDefault(), string(habit.Type), habit.IsWeekly,
		storage.FormatTime(habit.CreationDate), storage.FormatNullTime(habit.ArchivedAt), storage.FormatNullTime(habit.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}

	for _, table := range []string{"habit_completions", "habit_counters", "habit_durations"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE habit_id = $1", habit.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, d := range habit.CompletedDates {
		if _, err := tx.Exec(`
			INSERT INTO habit_completions (habit_id, completed_at) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			habit.ID, storage.FormatTime(d)); err != nil {
			return fmt.Errorf("failed to save completion: %w", err)
		}
	}

	for day, count := range habit.DailyCounters {
		if _, err := tx.Exec("INSERT INTO habit_counters (habit_id, day, count) VALUES ($1, $2, $3)",
			habit.ID, day, count); err != nil {
			return fmt.Errorf("failed to save counter: %w", err)
		}
	}

	for i, d := range habit.DurationHistory {
		if _, err := tx.Exec(`
			INSERT INTO habit_durations (habit_id, position, minutes, effective_date, expiration_date)
			VALUES ($1, $2, $3, $4, $5)`,
			habit.ID, i, d.Minutes, storage.FormatTime(d.EffectiveDate), storage.FormatNullTime(d.ExpirationDate)); err != nil {
			return fmt.Errorf("failed to save duration: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Debug("habit saved", "id", habit.ID, "completions", len(habit.CompletedDates), "durations", len(habit.DurationHistory))
	return nil
}

func (s *Store) ArchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = $1 WHERE id = $2 AND deleted_at IS NULL AND archived_at IS NULL`,
		storage.FormatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return checkAffected(result, "already archived/deleted")
}

func (s *Store) UnarchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = NULL WHERE id = $1 AND deleted_at IS NULL AND archived_at IS NOT NULL`,
		id)
	if err != nil {
		return err
	}
	return checkAffected(result, "not archived")
}

func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		storage.FormatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return checkAffected(result, "already deleted")
}

func (s *Store) RestoreHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`,
		id)
	if err != nil {
		return err
	}
	return checkAffected(result, "not deleted")
}

func checkAffected(result sql.Result, msg string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w or %s", storage.ErrHabitNotFound, msg)
	}
	return nil
}
