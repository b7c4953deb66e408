package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/allocman/service/messaging"
)

type change struct {
	Name string `json:"name"`
}

func TestService_Listener(t *testing.T) {
	var testCases = []struct {
		description string
		config      Config
	}{
		{description: "memory vendor", config: DefaultConfig()},
		{description: "fs vendor", config: Config{Enabled: true, Vendor: messaging.VendorFS, URL: "mem://localhost/events/listener"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			ctx := context.Background()
			srv, err := New(testCase.config)
			require.NoError(t, err)
			defer srv.Close()

			var mux sync.Mutex
			var received []string
			done := make(chan struct{})
			require.NoError(t, SetListenerOf[change](ctx, srv, func(e *Event[change]) {
				mux.Lock()
				defer mux.Unlock()
				received = append(received, e.Data.Name)
				if len(received) == 2 {
					close(done)
				}
			}))
			publisher, err := PublisherOf[change](ctx, srv)
			require.NoError(t, err)
			same, err := PublisherOf[change](ctx, srv)
			require.NoError(t, err)
			assert.Same(t, publisher, same)

			eventContext := &Context{Service: "test", Method: "publish", EventType: "change"}
			require.NoError(t, publisher.Publish(ctx, NewEvent(eventContext, change{Name: "fair"})))
			require.NoError(t, publisher.Publish(ctx, NewEvent(eventContext, change{Name: "greedy"})))
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("events were not delivered")
			}
			mux.Lock()
			assert.Equal(t, []string{"fair", "greedy"}, received)
			mux.Unlock()
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		config      Config
		expectErr   bool
	}{
		{description: "default", config: DefaultConfig()},
		{description: "disabled", config: Config{}},
		{description: "fs without url", config: Config{Enabled: true, Vendor: messaging.VendorFS}, expectErr: true},
		{description: "unknown vendor", config: Config{Enabled: true, Vendor: "kafka"}, expectErr: true},
		{description: "memory without buffer", config: Config{Enabled: true, Vendor: messaging.VendorMemory}, expectErr: true},
	}
	for _, testCase := range testCases {
		err := testCase.config.Validate()
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
}
