package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunnerWait(t *testing.T) {
	testCases := []struct {
		name    string
		runners []Runnable
		expect  string
	}{
		{
			name: "all succeed",
			runners: []Runnable{
				RunFunc(func(context.Context) error { return nil }),
				RunFunc(func(context.Context) error { return context.Canceled }),
			},
		},
		{
			name: "one fails",
			runners: []Runnable{
				NamedRun("bridge", RunFunc(func(context.Context) error { return errors.New("broken pipe") })),
				RunFunc(func(context.Context) error { return nil }),
			},
			expect: "bridge: broken pipe",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewRunner().Go(tc.runners...).Wait()
			if tc.expect == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tc.expect)
		})
	}
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	errs.Add(errors.New("a"), nil, errors.New("b"))
	require.EqualError(t, errs.Aggregate(), "multiple errors:\n  a\n  b")
}

func TestRunWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopCh := make(chan struct{})
	cancel()
	err := RunWithContextCancel(ctx, func() { close(stopCh) }, func() error {
		<-stopCh
		return nil
	})
	require.Equal(t, context.Canceled, err)

	err = RunWithContext(context.Background(), func() error { return errors.New("done") })
	require.EqualError(t, err, "done")
}
