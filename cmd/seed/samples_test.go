package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booksapi/internal/book"
	"booksapi/internal/testutil"
)

func TestSeedSamples_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	service := book.NewService(book.NewRepository(testutil.OpenSQLite(t), time.Second), book.NewValidator())

	report, err := seedSamples(ctx, service, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, len(samples), report.Created)
	assert.Empty(t, report.Rejected)

	report, err = seedSamples(ctx, service, zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Equal(t, len(samples), report.Conflicts)

	out, err := service.GetByISBN(ctx, "9780441478125")
	require.NoError(t, err)
	assert.Equal(t, "978-0-441-47812-5", out.Book.ISBN)
}

func TestSplitSubjects(t *testing.T) {
	assert.Equal(t, []string{"history", "art"}, splitSubjects(" history,, art ,"))
	assert.Nil(t, splitSubjects(""))
}
