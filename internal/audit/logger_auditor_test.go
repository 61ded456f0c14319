package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"lanupload/internal/logging"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuditor(enabled bool) (*LoggerAuditor, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(&buf)
	return &LoggerAuditor{enabled: enabled, log: log}, &buf
}

func TestLoggerAuditor_Log(t *testing.T) {
	auditor, buf := newTestAuditor(true)
	ctx := logging.WithRequestID(context.Background(), "01HZY")

	auditor.Log(ctx, "upload.stored", "192.168.1.20:5123", "a.txt", map[string]interface{}{"size": 500})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "AUDIT EVENT", entry["msg"])
	assert.Equal(t, "upload.stored", entry["audit_action"])
	assert.Equal(t, "192.168.1.20:5123", entry["audit_actor"])
	assert.Equal(t, "a.txt", entry["audit_resource"])
	assert.Equal(t, "01HZY", entry["request_id"])
	assert.Equal(t, float64(500), entry["detail.size"])
}

func TestLoggerAuditor_Disabled(t *testing.T) {
	auditor, buf := newTestAuditor(false)

	auditor.Log(context.Background(), "upload.stored", "x", "a.txt", nil)

	assert.Zero(t, buf.Len())
}

