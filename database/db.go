package database

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/roll/universe"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createRollEventTableSQL = "CREATE TABLE IF NOT EXISTS rollevent (id TEXT PRIMARY KEY, canonical TEXT, oldticker TEXT, newticker TEXT, occurredon INTEGER, createdon INTEGER)"
	persistRollEventSQL     = "INSERT INTO rollevent(id, canonical, oldticker, newticker, occurredon, createdon) VALUES(?,?,?,?,?,?)"
	findRollEventsSQL       = "SELECT id, canonical, oldticker, newticker, occurredon, createdon FROM rollevent WHERE canonical = ? ORDER BY occurredon ASC"
)

// RollStorer defines the requirements for storing roll events.
type RollStorer interface {
	// PersistRollEvent stores the provided roll event to the database.
	PersistRollEvent(ctx context.Context, event *universe.RollEvent) error
}

// DatabaseConfig is the configuration for the database.
type DatabaseConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Logger is the database logger.
	Logger *zerolog.Logger
}

// Database represents the database connection.
type Database struct {
	cfg    *DatabaseConfig
	client *rqlitehttp.Client
}

// Ensure the database implements the RollStorer interface.
var _ RollStorer = (*Database)(nil)

// NewDatabase initializes a new database connection.
func NewDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	client.SetBasicAuth(cfg.User, cfg.Pass)

	db := &Database{
		cfg:    cfg,
		client: client,
	}

	err = db.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	return db, nil
}

// bootstrap initializes the database.
func (db *Database) bootstrap(ctx context.Context) error {
	_, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{SQL: createRollEventTableSQL},
	}, &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Timings:     true,
	})
	if err != nil {
		return err
	}

	return nil
}

// PersistRollEvent stores the provided roll event to the database.
func (db *Database) PersistRollEvent(ctx context.Context, event *universe.RollEvent) error {
	db.cfg.Logger.Debug().Msgf("persisting roll event: %s", spew.Sdump(event))

	_, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{
			SQL: persistRollEventSQL,
			PositionalParams: []any{event.ID, event.Canonical, event.OldTicker, event.NewTicker,
				event.OccurredOn.Unix(), event.CreatedOn.Unix()},
		},
	}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return err
	}

	return nil
}

// FetchRollEvents fetches the persisted roll events for the provided
// canonical symbol, oldest first.
func (db *Database) FetchRollEvents(ctx context.Context, canonical string) ([]*universe.RollEvent, error) {
	resp, err := db.client.QuerySingle(ctx, findRollEventsSQL, canonical)
	if err != nil {
		return nil, err
	}

	results := resp.GetQueryResultsAssoc()
	events := make([]*universe.RollEvent, 0, len(results))
	for _, result := range results {
		for _, row := range result.Rows {
			event := &universe.RollEvent{
				ID:        fmt.Sprint(row["id"]),
				Canonical: fmt.Sprint(row["canonical"]),
				OldTicker: fmt.Sprint(row["oldticker"]),
				NewTicker: fmt.Sprint(row["newticker"]),
			}

			if occurredOn, ok := row["occurredon"].(float64); ok {
				event.OccurredOn = time.Unix(int64(occurredOn), 0).UTC()
			}
			if createdOn, ok := row["createdon"].(float64); ok {
				event.CreatedOn = time.Unix(int64(createdOn), 0).UTC()
			}

			events = append(events, event)
		}
	}

	return events, nil
}
