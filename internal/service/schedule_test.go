package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satriojati/loan-ledger/internal/service"
	customError "github.com/satriojati/loan-ledger/pkg/errors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateSchedule(t *testing.T) {
	scheduler := service.AmortizationScheduler{}

	t.Run("splits 5000 over 3 terms with trailing remainder", func(t *testing.T) {
		drafts, err := scheduler.GenerateSchedule(5000, 3, day(2020, time.January, 20))
		require.NoError(t, err)
		require.Len(t, drafts, 3)

		assert.Equal(t, int64(1666), drafts[0].Amount)
		assert.Equal(t, int64(1666), drafts[1].Amount)
		assert.Equal(t, int64(1667), drafts[2].Amount)

		assert.Equal(t, day(2020, time.February, 20), drafts[0].DueDate)
		assert.Equal(t, day(2020, time.March, 20), drafts[1].DueDate)
		assert.Equal(t, day(2020, time.April, 20), drafts[2].DueDate)
	})

	t.Run("six terms sum back to principal", func(t *testing.T) {
		drafts, err := scheduler.GenerateSchedule(10000, 6, day(2021, time.March, 5))
		require.NoError(t, err)
		require.Len(t, drafts, 6)

		var total int64
		for _, d := range drafts {
			total += d.Amount
		}
		assert.Equal(t, int64(10000), total)

		// remainder of 4 lands on the last four installments
		assert.Equal(t, int64(1666), drafts[0].Amount)
		assert.Equal(t, int64(1666), drafts[1].Amount)
		for i := 2; i < 6; i++ {
			assert.Equal(t, int64(1667), drafts[i].Amount)
		}
	})

	t.Run("month-end dates clamp instead of overflowing", func(t *testing.T) {
		drafts, err := scheduler.GenerateSchedule(9000, 3, day(2020, time.January, 31))
		require.NoError(t, err)

		assert.Equal(t, day(2020, time.February, 29), drafts[0].DueDate)
		assert.Equal(t, day(2020, time.March, 29), drafts[1].DueDate)
		assert.Equal(t, day(2020, time.April, 29), drafts[2].DueDate)
	})

	t.Run("due dates strictly increase", func(t *testing.T) {
		drafts, err := scheduler.GenerateSchedule(123457, 6, day(2022, time.August, 31))
		require.NoError(t, err)

		for i := 1; i < len(drafts); i++ {
			assert.True(t, drafts[i].DueDate.After(drafts[i-1].DueDate))
		}
	})

	t.Run("rejects non-positive principal", func(t *testing.T) {
		_, err := scheduler.GenerateSchedule(0, 3, day(2020, time.January, 1))
		require.Error(t, err)
		assert.True(t, customError.IsInvalidInput(err))

		_, err = scheduler.GenerateSchedule(-5000, 3, day(2020, time.January, 1))
		require.Error(t, err)
		assert.True(t, customError.IsInvalidInput(err))
	})

	t.Run("rejects unsupported term counts", func(t *testing.T) {
		for _, terms := range []int{0, 1, 2, 4, 5, 7, 12, -3} {
			_, err := scheduler.GenerateSchedule(5000, terms, day(2020, time.January, 1))
			require.Error(t, err, "terms=%d", terms)
			assert.True(t, customError.IsInvalidInput(err), "terms=%d", terms)
		}
	})
}
