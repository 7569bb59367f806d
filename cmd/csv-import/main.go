// Command csv-import seeds the database from the CSV fixtures under the
// data directory. Rows are upserted by their literal ids so the command
// is safe to re-run; when the catalogue already holds data it is wiped
// first so the fixtures fully replace it.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"critichub/database"
	"critichub/internal/api/models"
	"critichub/internal/config"
)

func main() {
	dataDir := flag.String("data", "static/data", "directory holding the CSV fixtures")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("could not load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	if err := importAll(db, *dataDir); err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
	logger.Info("import finished")
}

// importAll runs the whole load in one transaction so a malformed file
// leaves the database untouched.
func importAll(db *gorm.DB, dataDir string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var titleCount int64
		if err := tx.Model(&models.Title{}).Count(&titleCount).Error; err != nil {
			return err
		}
		if titleCount > 1 {
			if err := wipeCatalogue(tx); err != nil {
				return err
			}
		}

		steps := []struct {
			file string
			load func(tx *gorm.DB, row record) error
		}{
			{"users.csv", loadUser},
			{"category.csv", loadCategory},
			{"genre.csv", loadGenre},
			{"titles.csv", loadTitle},
			{"genre_title.csv", loadGenreTitle},
			{"review.csv", loadReview},
			{"comments.csv", loadComment},
		}
		for _, step := range steps {
			if err := loadFile(tx, filepath.Join(dataDir, step.file), step.load); err != nil {
				return fmt.Errorf("%s: %w", step.file, err)
			}
		}
		return recomputeRatings(tx)
	})
}

// wipeCatalogue clears the catalogue and discussion tables. Users survive
// so existing accounts keep working across reimports.
func wipeCatalogue(tx *gorm.DB) error {
	for _, model := range []any{
		&models.Comment{},
		&models.Review{},
		&models.GenreTitle{},
		&models.Title{},
		&models.Genre{},
		&models.Category{},
	} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// recomputeRatings refreshes the stored per-title rating after the bulk
// load, since upserts bypass the review repository.
func recomputeRatings(tx *gorm.DB) error {
	return tx.Exec(`
		UPDATE titles SET rating = sub.avg_score
		FROM (
			SELECT title_id, ROUND(AVG(score)) AS avg_score
			FROM reviews GROUP BY title_id
		) AS sub
		WHERE titles.id = sub.title_id
	`).Error
}

// record is one CSV row addressed by column header.
type record map[string]string

func (r record) int64(key string) (int64, error) {
	v, err := strconv.ParseInt(r[key], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", key, err)
	}
	return v, nil
}

func (r record) int(key string) (int, error) {
	v, err := strconv.Atoi(r[key])
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", key, err)
	}
	return v, nil
}

func (r record) time(key string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, r[key])
	if err != nil {
		return time.Time{}, fmt.Errorf("column %q: %w", key, err)
	}
	return t, nil
}

func loadFile(tx *gorm.DB, path string, load func(tx *gorm.DB, row record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		row := make(record, len(header))
		for i, name := range header {
			row[name] = fields[i]
		}
		if err := load(tx, row); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return nil
}

// upsert writes the row keyed by its primary key, replacing an existing
// row with the same id.
func upsert(tx *gorm.DB, value any) error {
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(value).Error
}

func loadUser(tx *gorm.DB, row record) error {
	return upsert(tx, &models.User{
		ID:       row["id"],
		Username: row["username"],
		Email:    row["email"],
		Role:     row["role"],
	})
}

func loadCategory(tx *gorm.DB, row record) error {
	id, err := row.int64("id")
	if err != nil {
		return err
	}
	return upsert(tx, &models.Category{ID: id, Name: row["name"], Slug: row["slug"]})
}

func loadGenre(tx *gorm.DB, row record) error {
	id, err := row.int64("id")
	if err != nil {
		return err
	}
	return upsert(tx, &models.Genre{ID: id, Name: row["name"], Slug: row["slug"]})
}

func loadTitle(tx *gorm.DB, row record) error {
	id, err := row.int64("id")
	if err != nil {
		return err
	}
	year, err := row.int("year")
	if err != nil {
		return err
	}
	categoryID, err := row.int64("category")
	if err != nil {
		return err
	}
	return upsert(tx, &models.Title{
		ID:         id,
		Name:       row["name"],
		Year:       year,
		CategoryID: &categoryID,
	})
}

func loadGenreTitle(tx *gorm.DB, row record) error {
	id, err := row.int64("id")
	if err != nil {
		return err
	}
	titleID, err := row.int64("title_id")
	if err != nil {
		return err
	}
	genreID, err := row.int64("genre_id")
	if err != nil {
		return err
	}
	return upsert(tx, &models.GenreTitle{ID: id, TitleID: titleID, GenreID: genreID})
}

func loadReview(tx *gorm.DB, row record) error {
	id, err := row.int64("id")
	if err != nil {
		return err
	}
	titleID, err := row.int64("title_id")
	if err != nil {
		return err
	}
	score, err := row.int("score")
	if err != nil {
		return err
	}
	pubDate, err := row.time("pub_date")
	if err != nil {
		return err
	}
	return upsert(tx, &models.Review{
		ID:       id,
		TitleID:  titleID,
		AuthorID: row["author"],
		Text:     row["text"],
		Score:    score,
		PubDate:  pubDate,
	})
}

func loadComment(tx *gorm.DB, row record) error {
	id, err := row.int64("id")
	if err != nil {
		return err
	}
	reviewID, err := row.int64("review_id")
	if err != nil {
		return err
	}
	pubDate, err := row.time("pub_date")
	if err != nil {
		return err
	}
	return upsert(tx, &models.Comment{
		ID:       id,
		ReviewID: reviewID,
		AuthorID: row["author"],
		Text:     row["text"],
		PubDate:  pubDate,
	})
}
