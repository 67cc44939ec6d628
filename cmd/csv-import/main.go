package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reviewhub/internal/api/models"
	"reviewhub/internal/config"
	"reviewhub/internal/database"
)

// csv-import loads seed data from CSV files into the database. Rows are
// upserted by their explicit id, so re-running the import is safe. A bad
// row is logged and skipped, never fatal. Missing files are skipped too,
// so a partial data directory works.
//
// Expected files, imported in dependency order:
//
//	users.csv        id,username,email,role,bio,first_name,last_name
//	category.csv     id,name,slug
//	genre.csv        id,name,slug
//	titles.csv       id,name,year,category
//	genre_title.csv  id,title_id,genre_id
//	review.csv       id,title_id,text,author,score,pub_date
//	comments.csv     id,review_id,text,author,pub_date
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	imp := &importer{db: db, dir: cfg.CSVDataPath, logger: logger}

	imp.importFile("users.csv", imp.userRow)
	imp.importFile("category.csv", imp.categoryRow)
	imp.importFile("genre.csv", imp.genreRow)
	imp.importFile("titles.csv", imp.titleRow)
	imp.importFile("genre_title.csv", imp.genreTitleRow)
	imp.importFile("review.csv", imp.reviewRow)
	imp.importFile("comments.csv", imp.commentRow)

	logger.Info("import finished", "imported", imp.imported, "skipped", imp.skipped)
}

type importer struct {
	db     *gorm.DB
	dir    string
	logger *slog.Logger

	imported int
	skipped  int
}

// importFile streams one CSV file through rowFn. The first record is the
// header; each data row becomes a column-name map.
func (imp *importer) importFile(name string, rowFn func(row map[string]string) error) {
	path := filepath.Join(imp.dir, name)

	f, err := os.Open(path)
	if err != nil {
		imp.logger.Warn("skipping file", "file", name, "error", err)
		return
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		imp.logger.Error("cannot read header", "file", name, "error", err)
		return
	}

	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			imp.logger.Error("bad row", "file", name, "line", line, "error", err)
			imp.skipped++
			continue
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}

		if err := rowFn(row); err != nil {
			imp.logger.Error("row rejected", "file", name, "line", line, "error", err)
			imp.skipped++
			continue
		}
		imp.imported++
	}
}

// upsert writes the record, updating all columns when the id already exists.
func (imp *importer) upsert(value any) error {
	return imp.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(value).Error
}

func (imp *importer) userRow(row map[string]string) error {
	id, err := intField(row, "id")
	if err != nil {
		return err
	}
	role := models.Role(row["role"])
	if !role.Valid() {
		role = models.RoleUser
	}
	return imp.upsert(&models.User{
		ID:        id,
		Username:  row["username"],
		Email:     row["email"],
		Role:      role,
		Bio:       row["bio"],
		FirstName: row["first_name"],
		LastName:  row["last_name"],
		Confirmed: true,
	})
}

func (imp *importer) categoryRow(row map[string]string) error {
	id, err := intField(row, "id")
	if err != nil {
		return err
	}
	return imp.upsert(&models.Category{ID: id, Name: row["name"], Slug: row["slug"]})
}

func (imp *importer) genreRow(row map[string]string) error {
	id, err := intField(row, "id")
	if err != nil {
		return err
	}
	return imp.upsert(&models.Genre{ID: id, Name: row["name"], Slug: row["slug"]})
}

func (imp *importer) titleRow(row map[string]string) error {
	id, err := intField(row, "id")
	if err != nil {
		return err
	}
	year, err := intField(row, "year")
	if err != nil {
		return err
	}

	title := models.Title{ID: id, Name: row["name"], Year: int(year)}
	if v := row["category"]; v != "" {
		categoryID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", v)
		}
		title.CategoryID = &categoryID
	}
	return imp.db.Omit("Genres", "Category").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&title).Error
}

func (imp *importer) genreTitleRow(row map[string]string) error {
	id, err := intField(row, "id")
	if err != nil {
		return err
	}
	titleID, err := intField(row, "title_id")
	if err != nil {
		return err
	}
	genreID, err := intField(row, "genre_id")
	if err != nil {
		return err
	}
	return imp.upsert(&models.GenreTitle{ID: id, TitleID: titleID, GenreID: genreID})
}

func (imp *importer) reviewRow(row map[string]string) error {
	id, err := intField(row, "id")
	if err != nil {
		return err
	}
	titleID, err := intField(row, "title_id")
	if err != nil {
		return err
	}
	authorID, err := intField(row, "author")
	if err != nil {
		return err
	}
	score, err := intField(row, "score")
	if err != nil {
		return err
	}
	pubDate, err := timeField(row, "pub_date")
	if err != nil {
		return err
	}
	return imp.db.Omit("Title", "Author").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&models.Review{
		ID:       id,
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     row["text"],
		Score:    int(score),
		PubDate:  pubDate,
	}).Error
}

func (imp *importer) commentRow(row map[string]string) error {
	id, err := intField(row, "id")
	if err != nil {
		return err
	}
	reviewID, err := intField(row, "review_id")
	if err != nil {
		return err
	}
	authorID, err := intField(row, "author")
	if err != nil {
		return err
	}
	pubDate, err := timeField(row, "pub_date")
	if err != nil {
		return err
	}
	return imp.db.Omit("Review", "Author").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&models.Comment{
		ID:       id,
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     row["text"],
		PubDate:  pubDate,
	}).Error
}

func intField(row map[string]string, key string) (int64, error) {
	v, ok := row[key]
	if !ok || v == "" {
		return 0, fmt.Errorf("missing %s", key)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

func timeField(row map[string]string, key string) (time.Time, error) {
	v, ok := row[key]
	if !ok || v == "" {
		return time.Time{}, fmt.Errorf("missing %s", key)
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q", key, v)
	}
	return t, nil
}
