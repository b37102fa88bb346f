package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"
)

const requestPageSize = 100

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

type Database struct {
	ID          string
	Title       string
	Description string
	URL         string
}

type searchAPI interface {
	Do(ctx context.Context, request *notionapi.SearchRequest) (*notionapi.SearchResponse, error)
}

type databaseAPI interface {
	Get(ctx context.Context, id notionapi.DatabaseID) (*notionapi.Database, error)
	Query(ctx context.Context, id notionapi.DatabaseID, request *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

type blockAPI interface {
	GetChildren(ctx context.Context, id notionapi.BlockID, pagination *notionapi.Pagination) (*notionapi.GetChildrenResponse, error)
}

type Client struct {
	search    searchAPI
	databases databaseAPI
	blocks    blockAPI
	log       *zap.Logger
}

func NewClient(token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	api := notionapi.NewClient(notionapi.Token(strings.TrimSpace(token)))
	return &Client{
		search:    api.Search,
		databases: api.Database,
		blocks:    api.Block,
		log:       log,
	}
}

func (c *Client) ListDatabases(ctx context.Context) ([]Database, error) {
	var out []Database
	var cursor notionapi.Cursor
	for {
		resp, err := c.search.Do(ctx, &notionapi.SearchRequest{
			Filter:      notionapi.SearchFilter{Value: "database", Property: "object"},
			StartCursor: cursor,
			PageSize:    requestPageSize,
		})
		if err != nil {
			return nil, classify(err)
		}
		for _, obj := range resp.Results {
			db, ok := obj.(*notionapi.Database)
			if !ok {
				continue
			}
			out = append(out, summarize(db))
		}
		c.log.Debug("search page fetched",
			zap.Int("results", len(resp.Results)),
			zap.Bool("has_more", resp.HasMore))
		if !resp.HasMore {
			return out, nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

func (c *Client) Database(ctx context.Context, id string) (Database, error) {
	db, err := c.databases.Get(ctx, notionapi.DatabaseID(id))
	if err != nil {
		return Database{}, classify(err)
	}
	return summarize(db), nil
}

func (c *Client) DatabasePages(ctx context.Context, databaseID string) ([]notionapi.Page, error) {
	var out []notionapi.Page
	var cursor notionapi.Cursor
	for {
		resp, err := c.databases.Query(ctx, notionapi.DatabaseID(databaseID), &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    requestPageSize,
		})
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, resp.Results...)
		if !resp.HasMore {
			c.log.Debug("database pages fetched",
				zap.String("database_id", databaseID),
				zap.Int("pages", len(out)))
			return out, nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

func (c *Client) BlockChildren(ctx context.Context, containerID string) ([]notionapi.Block, error) {
	var out []notionapi.Block
	pagination := &notionapi.Pagination{PageSize: requestPageSize}
	for {
		resp, err := c.blocks.GetChildren(ctx, notionapi.BlockID(containerID), pagination)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, resp.Results...)
		if !resp.HasMore {
			return out, nil
		}
		pagination.StartCursor = notionapi.Cursor(resp.NextCursor)
	}
}

func summarize(db *notionapi.Database) Database {
	return Database{
		ID:          string(db.ID),
		Title:       plainText(db.Title),
		Description: plainText(db.Description),
		URL:         db.URL,
	}
}

func plainText(spans []notionapi.RichText) string {
	var b strings.Builder
	for _, span := range spans {
		b.WriteString(span.PlainText)
	}
	return b.String()
}

// classify keeps transport errors opaque but marks the two kinds callers
// react to: invalid credentials and missing objects.
func classify(err error) error {
	var apiErr *notionapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
	default:
		return err
	}
}
