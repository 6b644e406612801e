//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"vibescout/internal/domain"
	mysqlrepo "vibescout/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the tests ----------
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=vibescout",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "vibescout")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_VenuesAndProfiles(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange: insert out of order; position drives catalog order
	second := domain.Venue{
		ID: "2", Name: "Samsara", Address: "Str. Hossu 3",
		Coords: domain.Coords{Lat: 46.7705, Lon: 23.5897}, Rating: 4.2,
		ShortDescription: "Vegan",
	}
	first := domain.Venue{
		ID: "1", Name: "Origo", Address: "Str. Lipscani 9",
		Coords: domain.Coords{Lat: 44.4316, Lon: 26.1003}, Rating: 4.8,
		ShortDescription: "Coffee", PlusCode: "8GQ8CVJ2+M4",
		City: pstr("Bucharest"), Category: pstr("Cafe"),
		Cuisine: []string{"Coffee"}, Atmosphere: []string{"Busy"}, Features: []string{"WiFi"},
	}
	if err := repo.UpsertVenue(ctx, 2, second); err != nil {
		t.Fatalf("UpsertVenue: %v", err)
	}
	if err := repo.UpsertVenue(ctx, 1, first); err != nil {
		t.Fatalf("UpsertVenue: %v", err)
	}

	// Assert
	all, err := repo.ListVenues(ctx)
	if err != nil {
		t.Fatalf("ListVenues: %v", err)
	}
	if len(all) != 2 || all[0].ID != "1" || all[1].ID != "2" {
		t.Fatalf("unexpected catalog order: %+v", all)
	}
	if all[1].City != nil || all[1].Cuisine != nil {
		t.Fatalf("venue without metadata should have nil classification: %+v", all[1])
	}

	v, err := repo.GetVenue(ctx, "1")
	if err != nil {
		t.Fatalf("GetVenue: %v", err)
	}
	if v.City == nil || *v.City != "Bucharest" || len(v.Features) != 1 || v.PlusCode != "8GQ8CVJ2+M4" {
		t.Fatalf("unexpected venue: %+v", v)
	}
	if _, err := repo.GetVenue(ctx, "404"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Profiles: partial update keeps earlier fields
	if err := repo.UpsertProfile(ctx, domain.Profile{UserID: "u1", Username: pstr("ana")}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	if err := repo.UpsertProfile(ctx, domain.Profile{
		UserID: "u1", City: pstr("Bucharest"), CityLat: pfloat(44.4268), CityLong: pfloat(26.1025),
	}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	p, err := repo.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Username == nil || *p.Username != "ana" {
		t.Fatalf("username lost on partial update: %+v", p)
	}
	loc := p.Location()
	if loc == nil || loc.City != "Bucharest" || loc.Lat != 44.4268 {
		t.Fatalf("unexpected location: %+v", loc)
	}
	if _, err := repo.GetProfile(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
