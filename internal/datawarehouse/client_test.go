package datawarehouse

import (
	"context"
	"net/url"
	"testing"

	"github.com/autoshop/shop-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClient_DisabledReturnsNil(t *testing.T) {
	client, err := NewClient(&config.DataWarehouseConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.NoError(t, client.Close())
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewClient_MissingCredentialsReturnsNil(t *testing.T) {
	client, err := NewClient(&config.DataWarehouseConfig{Enabled: true, URL: "dw:1433/ledger"}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestExportLedgerEntries_NilClient(t *testing.T) {
	var client *Client
	err := client.ExportLedgerEntries(context.Background(), []LedgerEntry{{Kind: EntryPayment}})
	assert.Error(t, err)
}

func TestBuildConnectionString(t *testing.T) {
	raw, err := buildConnectionString(&config.DataWarehouseConfig{
		URL:      "dw.example.net/accounting",
		User:     "exporter",
		Password: "p@ss",
	})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", u.Scheme)
	assert.Equal(t, "dw.example.net:1433", u.Host)
	assert.Equal(t, "exporter", u.User.Username())
	assert.Equal(t, "accounting", u.Query().Get("database"))
	assert.Equal(t, "true", u.Query().Get("encrypt"))
}

func TestBuildConnectionString_MissingHost(t *testing.T) {
	_, err := buildConnectionString(&config.DataWarehouseConfig{URL: ":1433/accounting"})
	assert.Error(t, err)
}

func TestExportTable(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "dbo.shop_ledger_entries"},
		{"shop_ledger_entries", "dbo.shop_ledger_entries"},
		{"acct.cash_ledger", "acct.cash_ledger"},
		{"ledger; DROP TABLE x", "dbo.shop_ledger_entries"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, exportTable(tt.in))
		})
	}
}

func TestMergeStatementTargetsTable(t *testing.T) {
	stmt := mergeStatement("acct.cash_ledger")
	assert.Contains(t, stmt, "MERGE INTO acct.cash_ledger AS target")
	assert.Contains(t, stmt, "WHEN NOT MATCHED THEN INSERT")
}
