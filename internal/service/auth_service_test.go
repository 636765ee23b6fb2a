package service

import (
	"baggage_quiz_backend/pkg/logger"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeIPRecorder struct {
	ips []string
	err error
}

func (f *fakeIPRecorder) RecordIP(userID uint, ip string) error {
	f.ips = append(f.ips, ip)
	return f.err
}

// 来源地址写入失败不中断主流程，但要留下告警日志
func TestRecordSourceIPLogsFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = prev }()

	recorder := &fakeIPRecorder{err: errors.New("table locked")}
	recordSourceIP(recorder, 7, "192.0.2.10")

	require.Len(t, logs.All(), 1)
	entry := logs.All()[0]
	assert.Equal(t, "failed to record source ip", entry.Message)
	assert.Equal(t, zap.WarnLevel, entry.Level)
}

func TestRecordSourceIPSuccessLogsNothing(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = prev }()

	recorder := &fakeIPRecorder{}
	recordSourceIP(recorder, 7, "192.0.2.10")

	assert.Equal(t, []string{"192.0.2.10"}, recorder.ips)
	assert.Empty(t, logs.All())
}

func TestRecordSourceIPSkipsEmptyAddress(t *testing.T) {
	recorder := &fakeIPRecorder{err: errors.New("should not be called")}
	recordSourceIP(recorder, 7, "")

	assert.Empty(t, recorder.ips)
}
