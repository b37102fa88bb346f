package notion

import (
	"context"
	"errors"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSearch struct {
	responses []*notionapi.SearchResponse
	cursors   []string
	err       error
}

func (f *fakeSearch) Do(_ context.Context, request *notionapi.SearchRequest) (*notionapi.SearchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.cursors = append(f.cursors, string(request.StartCursor))
	return f.responses[len(f.cursors)-1], nil
}

type fakeDatabases struct {
	db        *notionapi.Database
	responses []*notionapi.DatabaseQueryResponse
	cursors   []string
	err       error
}

func (f *fakeDatabases) Get(_ context.Context, _ notionapi.DatabaseID) (*notionapi.Database, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.db, nil
}

func (f *fakeDatabases) Query(_ context.Context, _ notionapi.DatabaseID, request *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.cursors = append(f.cursors, string(request.StartCursor))
	return f.responses[len(f.cursors)-1], nil
}

type fakeBlocks struct {
	responses []*notionapi.GetChildrenResponse
	cursors   []string
	err       error
}

func (f *fakeBlocks) GetChildren(_ context.Context, _ notionapi.BlockID, pagination *notionapi.Pagination) (*notionapi.GetChildrenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.cursors = append(f.cursors, string(pagination.StartCursor))
	return f.responses[len(f.cursors)-1], nil
}

func newTestClient(search searchAPI, databases databaseAPI, blocks blockAPI) *Client {
	return &Client{search: search, databases: databases, blocks: blocks, log: zap.NewNop()}
}

func spans(text string) []notionapi.RichText {
	return []notionapi.RichText{{PlainText: text}}
}

func TestListDatabasesPaginatesAndFilters(t *testing.T) {
	search := &fakeSearch{responses: []*notionapi.SearchResponse{
		{
			Results: []notionapi.Object{
				&notionapi.Database{ID: "db-1", Title: spans("Tasks"), URL: "https://www.notion.so/db-1"},
				&notionapi.Page{ID: "p-1"},
			},
			HasMore:    true,
			NextCursor: "cur-1",
		},
		{
			Results: []notionapi.Object{
				&notionapi.Database{ID: "db-2", Title: spans("Team "), Description: spans("Wiki"), URL: "https://www.notion.so/db-2"},
			},
		},
	}}
	client := newTestClient(search, nil, nil)

	databases, err := client.ListDatabases(context.Background())
	require.NoError(t, err)

	require.Len(t, databases, 2)
	assert.Equal(t, Database{ID: "db-1", Title: "Tasks", URL: "https://www.notion.so/db-1"}, databases[0])
	assert.Equal(t, Database{ID: "db-2", Title: "Team ", Description: "Wiki", URL: "https://www.notion.so/db-2"}, databases[1])
	assert.Equal(t, []string{"", "cur-1"}, search.cursors)
}

func TestDatabasePagesPaginates(t *testing.T) {
	databases := &fakeDatabases{responses: []*notionapi.DatabaseQueryResponse{
		{Results: []notionapi.Page{{ID: "p-1"}, {ID: "p-2"}}, HasMore: true, NextCursor: "cur-a"},
		{Results: []notionapi.Page{{ID: "p-3"}}},
	}}
	client := newTestClient(nil, databases, nil)

	pages, err := client.DatabasePages(context.Background(), "db-1")
	require.NoError(t, err)

	require.Len(t, pages, 3)
	assert.Equal(t, notionapi.ObjectID("p-3"), pages[2].ID)
	assert.Equal(t, []string{"", "cur-a"}, databases.cursors)
}

func TestBlockChildrenPaginates(t *testing.T) {
	blocks := &fakeBlocks{responses: []*notionapi.GetChildrenResponse{
		{
			Results:    notionapi.Blocks{&notionapi.DividerBlock{BasicBlock: notionapi.BasicBlock{ID: "b-1", Type: notionapi.BlockTypeDivider}}},
			HasMore:    true,
			NextCursor: "cur-b",
		},
		{
			Results: notionapi.Blocks{&notionapi.DividerBlock{BasicBlock: notionapi.BasicBlock{ID: "b-2", Type: notionapi.BlockTypeDivider}}},
		},
	}}
	client := newTestClient(nil, nil, blocks)

	children, err := client.BlockChildren(context.Background(), "container")
	require.NoError(t, err)

	require.Len(t, children, 2)
	assert.Equal(t, notionapi.BlockID("b-2"), children[1].GetID())
	assert.Equal(t, []string{"", "cur-b"}, blocks.cursors)
}

func TestDatabaseGet(t *testing.T) {
	databases := &fakeDatabases{db: &notionapi.Database{
		ID:          "db-9",
		Title:       spans("Roadmap"),
		Description: spans("Quarterly planning"),
		URL:         "https://www.notion.so/db-9",
	}}
	client := newTestClient(nil, databases, nil)

	db, err := client.Database(context.Background(), "db-9")
	require.NoError(t, err)
	assert.Equal(t, Database{
		ID:          "db-9",
		Title:       "Roadmap",
		Description: "Quarterly planning",
		URL:         "https://www.notion.so/db-9",
	}, db)
}

func TestClassifyUnauthorized(t *testing.T) {
	search := &fakeSearch{err: &notionapi.Error{Status: 401, Code: "unauthorized", Message: "API token is invalid."}}
	client := newTestClient(search, nil, nil)

	_, err := client.ListDatabases(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "API token is invalid.")
}

func TestClassifyNotFound(t *testing.T) {
	databases := &fakeDatabases{err: &notionapi.Error{Status: 404, Code: "object_not_found", Message: "Could not find database."}}
	client := newTestClient(nil, databases, nil)

	_, err := client.Database(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClassifyLeavesOtherErrorsOpaque(t *testing.T) {
	apiErr := &notionapi.Error{Status: 500, Code: "internal_server_error", Message: "boom"}
	assert.Same(t, apiErr, classify(apiErr).(*notionapi.Error))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, classify(plain))
	assert.NotErrorIs(t, classify(plain), ErrUnauthorized)
}
