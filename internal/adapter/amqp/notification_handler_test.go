package amqp

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleOrderEvent(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New("notification-subscriber", logger.Options{Level: "debug", Output: &buf})
	require.NoError(t, err)
	h := NewNotificationHandler(log)

	at := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	order := domain.NewOrder(1, nil, at)
	order.ID = 9
	body, err := json.Marshal(interfaces.NewOrderEvent(interfaces.EventStatusChanged, order, domain.StatusInProgress, at))
	require.NoError(t, err)

	require.NoError(t, h.HandleOrderEvent(context.Background(), body))
	assert.Contains(t, buf.String(), `"action":"order_status_notification"`)
	assert.Contains(t, buf.String(), `"request_id":"9"`)
}

func TestHandleOrderEventRejectsGarbage(t *testing.T) {
	h := NewNotificationHandler(logger.NewNop())

	assert.Error(t, h.HandleOrderEvent(context.Background(), []byte("{")))
	assert.Error(t, h.HandleOrderEvent(context.Background(), []byte(`{"order_id":0}`)))
}
