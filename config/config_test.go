package config

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Abdisalan-Osman/evently/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// countingDialector counts how many times the underlying driver is opened.
type countingDialector struct {
	gorm.Dialector
	opens *int32
}

func (d countingDialector) Initialize(db *gorm.DB) error {
	atomic.AddInt32(d.opens, 1)
	return d.Dialector.Initialize(db)
}

func TestConnectMissingDSN(t *testing.T) {
	cfg := &Config{}
	gw := NewGateway(cfg)

	db, err := gw.Connect()
	assert.Nil(t, db)
	assert.True(t, errors.Is(err, apperror.ErrConfiguration))

	// The failed attempt is cached, not retried.
	_, err2 := gw.Connect()
	assert.Equal(t, err, err2)
}

func TestConnectReusesSingleConnection(t *testing.T) {
	var opens int32
	gw := NewGatewayWithDialector(countingDialector{
		Dialector: sqlite.Open(":memory:"),
		opens:     &opens,
	})

	first, err := gw.Connect()
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := gw.Connect()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
}

func TestConnectConcurrentFirstUse(t *testing.T) {
	var opens int32
	gw := NewGatewayWithDialector(countingDialector{
		Dialector: sqlite.Open(":memory:"),
		opens:     &opens,
	})

	var wg sync.WaitGroup
	handles := make([]*gorm.DB, 8)
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = gw.Connect()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
	for i := range handles {
		require.NoError(t, errs[i])
		assert.Same(t, handles[0], handles[i])
	}
}
