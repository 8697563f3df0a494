package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/sms-ledger/internal/config"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/smsparser"
	"fjacquet/sms-ledger/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.Store.Driver = store.DriverMemory
	cfg.Log.Level = "error"
	return cfg
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")
}

func TestNewContainer_MemoryStore(t *testing.T) {
	c, err := NewContainer(memoryConfig())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.GetLogger())
	assert.NotNil(t, c.GetConfig())
	assert.NotNil(t, c.GetCategorizer())
	assert.NotNil(t, c.GetMetrics())
	assert.NotNil(t, c.GetParser())

	svc, err := c.GetIngestService()
	require.NoError(t, err)
	assert.NotNil(t, svc)
	st, err := c.GetStore()
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, st)
	assert.Equal(t, "Asia/Kolkata", c.GetLocation().String())
}

func TestNewContainer_SQLiteStore(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store.Driver = store.DriverSQLite
	cfg.Store.Path = filepath.Join(t.TempDir(), "ledger.db")

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	_, statErr := os.Stat(cfg.Store.Path)
	assert.True(t, os.IsNotExist(statErr), "store must not be opened before use")

	st, err := c.GetStore()
	require.NoError(t, err)
	assert.IsType(t, &store.SQLiteStore{}, st)
	require.NoError(t, c.Close())
}

func TestContainer_CloseWithoutStore(t *testing.T) {
	c, err := NewContainer(memoryConfig())
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestContainer_StoreOpenError(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store.Driver = "postgres"

	c, err := NewContainer(cfg)
	require.NoError(t, err)

	_, err = c.GetIngestService()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open transaction store")
}

func TestNewContainer_InvalidTimezone(t *testing.T) {
	cfg := memoryConfig()
	cfg.Parser.Timezone = "Atlantis/Capital"

	_, err := NewContainer(cfg)
	assert.Error(t, err)
}

func TestNewContainer_WiresParserToStoreAndMetrics(t *testing.T) {
	c, err := NewContainer(memoryConfig())
	require.NoError(t, err)
	defer c.Close()

	sample := smsparser.DefaultSamples()[0]
	svc, err := c.GetIngestService()
	require.NoError(t, err)
	res, err := svc.Ingest(context.Background(), "alice", sample.Message, sample.Sender)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", res.Parsed.Date.Location().String())

	st, err := c.GetStore()
	require.NoError(t, err)
	list, err := st.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	families, err := c.GetMetrics().Registry().Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "smsledger_parse_total")
}

func TestNewContainer_CustomRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - name: healthcare
    keywords: [swiggy]
`), 0o600))

	cfg := memoryConfig()
	cfg.Categorizer.RulesFile = path

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, models.CategoryHealthcare, c.GetCategorizer().Categorize("Swiggy Food Order", ""))
}
