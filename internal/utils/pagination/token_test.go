package pagination_test

import (
	"testing"
	"time"

	"github.com/jobfin/finance_approval_app/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	docDate := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, time.March, 15, 10, 30, 45, 123456789, time.UTC)

	token := pagination.EncodeToken(docDate, createdAt)
	require.NotEmpty(t, token)

	gotDate, gotCreated, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, docDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!!")
	assert.Error(t, err)

	_, _, err = pagination.DecodeToken("bm8tc2VwYXJhdG9y") // "no-separator"
	assert.Error(t, err)
}
