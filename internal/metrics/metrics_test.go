package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/all", "200"))

	RecordRequest("GET", "/all", "200", 15*time.Millisecond)
	RecordRequest("GET", "/all", "200", 5*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/all", "200"))
	assert.Equal(t, before+2, after)
}

func TestObserveStoreOp(t *testing.T) {
	okBefore := testutil.ToFloat64(StoreOperations.WithLabelValues("list", "ok"))
	errBefore := testutil.ToFloat64(StoreOperations.WithLabelValues("list", "error"))

	ObserveStoreOp("list", nil)
	ObserveStoreOp("list", errors.New("disk I/O error"))
	ObserveStoreOp("list", errors.New("database is locked"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(StoreOperations.WithLabelValues("list", "ok")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(StoreOperations.WithLabelValues("list", "error")))
}
