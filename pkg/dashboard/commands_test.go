package dashboard

import (
	"context"
	"testing"

	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr string
	}{
		{name: "refresh", line: "refresh", want: Refresh{}},
		{name: "refresh with whitespace", line: "  REFRESH \n", want: Refresh{}},
		{name: "range", line: "range 30", want: SelectTimeRange{Days: 30}},
		{name: "empty", line: "   ", wantErr: "empty command"},
		{name: "refresh with args", line: "refresh now", wantErr: "no arguments"},
		{name: "range without days", line: "range", wantErr: "usage"},
		{name: "range not a number", line: "range week", wantErr: "positive integer"},
		{name: "range zero", line: "range 0", wantErr: "positive integer"},
		{name: "unknown", line: "export", wantErr: "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCommand(tt.line)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				var cmdErr *CommandError
				assert.ErrorAs(t, err, &cmdErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	backend, fetcher := newBackendFetcher(t)
	surface := render.NewMemorySurface()
	d := NewDispatcher(New(fetcher, surface))

	summary, err := d.Dispatch(context.Background(), Refresh{})
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Len(t, summary.Succeeded, 6)

	summary, err = d.Dispatch(context.Background(), SelectTimeRange{Days: 14})
	require.NoError(t, err)
	assert.Nil(t, summary)
	assert.Equal(t, []string{"7", "14"}, backend.Days())
	assert.Equal(t, 1, backend.Hits(models.KindCategory))

	_, err = d.Dispatch(context.Background(), SelectTimeRange{Days: -1})
	assert.ErrorIs(t, err, ErrInvalidDays)

	_, err = d.Dispatch(context.Background(), nil)
	assert.Error(t, err)
}
