package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iot-workbench/iotwb/internal/apperr"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, Succeeded, Classify(nil))
	assert.Equal(t, Cancelled, Classify(fmt.Errorf("env: %w", apperr.ErrUserCancelled)))
	assert.Equal(t, Failed, Classify(apperr.NotFound("template", "x")))
}

func TestFinishEmitsOneEvent(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		wantError string
		want      Result
	}{
		{name: "success", want: Succeeded},
		{name: "cancel", err: apperr.ErrUserCancelled, want: Cancelled},
		{name: "failure", err: errors.New("disk full"), want: Failed, wantError: "disk full"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			op := Start(zerolog.New(&buf), "env")
			op.Set("hostType", "Container")

			assert.Equal(t, tc.want, op.Finish(tc.err))

			var ev map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
			// 失败由 CLI 输出，日志保持在默认 warn 级别之下
			assert.Equal(t, "info", ev["level"])
			if tc.wantError != "" {
				assert.Equal(t, tc.wantError, ev["error"])
			} else {
				assert.NotContains(t, ev, "error")
			}
			assert.Equal(t, string(tc.want), ev["result"])
			assert.Equal(t, "Container", ev["hostType"])
			assert.Equal(t, op.ID, ev["operation_id"])
		})
	}
}

func TestFailureHiddenAtWarnLevel(t *testing.T) {
	var buf bytes.Buffer
	op := Start(zerolog.New(&buf).Level(zerolog.WarnLevel), "env")

	assert.Equal(t, Failed, op.Finish(apperr.NotFound("template", "x")))
	assert.Empty(t, buf.String())
}
