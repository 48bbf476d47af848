package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMutation(t *testing.T) {
	counter := RegistryMutations.WithLabelValues("vehicles", "test_add", ResultRejected)
	before := testutil.ToFloat64(counter)

	Mutation("vehicles", "test_add", ResultRejected)
	Mutation("vehicles", "test_add", ResultRejected)

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
	assert.Equal(t, 0.0, testutil.ToFloat64(RegistryMutations.WithLabelValues("vehicles", "test_add", ResultOK)))
}
