package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.createEvent(t, "19/10/2030", "20/10/2030", 2)

	view, err := f.svc.GetEventDetails(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, view.ID)
	assert.Equal(t, "Concert", view.Name)
	assert.Equal(t, time.Date(2030, 10, 19, 0, 0, 0, 0, time.UTC), view.StartDate)
	assert.Equal(t, time.Date(2030, 10, 20, 0, 0, 0, 0, time.UTC), view.EndDate)
	assert.Equal(t, 2, view.TotalTickets)
	assert.Equal(t, 0, view.TicketsSold)
	assert.Equal(t, int64(0), view.TicketsRedeemed)
	assert.Equal(t, []string{TopicEventCreated}, f.publisher.Topics())
}

func TestCreateEvent_StartingTodayIsAllowed(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateEvent(context.Background(), CreateEventInput{
		Name:         "Matinee",
		StartDate:    "15/10/2030",
		EndDate:      "15/10/2030",
		TotalTickets: 300,
	})

	assert.NoError(t, err)
}

func TestCreateEvent_AcceptsUnpaddedDates(t *testing.T) {
	f := newFixture(t)

	id := f.createEvent(t, "1/1/2031", "2/1/2031", 1)

	view, err := f.svc.GetEventDetails(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "01/01/2031", FormatDate(view.StartDate))
	assert.Equal(t, "02/01/2031", FormatDate(view.EndDate))
}

func TestCreateEvent_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      CreateEventInput
		message string
	}{
		{
			name:    "missing name",
			in:      CreateEventInput{StartDate: "19/10/2030", EndDate: "20/10/2030", TotalTickets: 2},
			message: msgMissingFields,
		},
		{
			name:    "missing end date",
			in:      CreateEventInput{Name: "Concert", StartDate: "19/10/2030", TotalTickets: 2},
			message: msgMissingFields,
		},
		{
			name:    "zero tickets counts as missing",
			in:      CreateEventInput{Name: "Concert", StartDate: "19/10/2030", EndDate: "20/10/2030"},
			message: msgMissingFields,
		},
		{
			name:    "start in the past",
			in:      CreateEventInput{Name: "Concert", StartDate: "14/10/2030", EndDate: "20/10/2030", TotalTickets: 2},
			message: msgStartInPast,
		},
		{
			name:    "end before start",
			in:      CreateEventInput{Name: "Concert", StartDate: "19/10/2030", EndDate: "18/10/2030", TotalTickets: 2},
			message: msgEndBeforeStart,
		},
		{
			name:    "too many tickets",
			in:      CreateEventInput{Name: "Concert", StartDate: "19/10/2030", EndDate: "20/10/2030", TotalTickets: 301},
			message: msgTicketsOutOfRange,
		},
		{
			name:    "negative tickets",
			in:      CreateEventInput{Name: "Concert", StartDate: "19/10/2030", EndDate: "20/10/2030", TotalTickets: -1},
			message: msgTicketsOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.CreateEvent(context.Background(), tt.in)

			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.message, validationMessage(t, err))
			assert.Empty(t, f.publisher.Topics())
		})
	}
}

func TestCreateEvent_ReportsParseError(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateEvent(context.Background(), CreateEventInput{
		Name:         "Concert",
		StartDate:    "2030-10-19",
		EndDate:      "20/10/2030",
		TotalTickets: 2,
	})

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), `parsing time "2030-10-19"`)
}

func TestUpdateEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createEvent(t, "19/10/2030", "20/10/2030", 2)

	err := f.svc.UpdateEvent(ctx, id, UpdateEventInput{
		Name:         "Concert II",
		StartDate:    "21/10/2030",
		EndDate:      "23/10/2030",
		TotalTickets: 10,
	})
	require.NoError(t, err)

	view, err := f.svc.GetEventDetails(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Concert II", view.Name)
	assert.Equal(t, "21/10/2030", FormatDate(view.StartDate))
	assert.Equal(t, "23/10/2030", FormatDate(view.EndDate))
	assert.Equal(t, 10, view.TotalTickets)
	assert.Contains(t, f.cache.invalidated, id)
	assert.Equal(t, []string{TopicEventCreated, TopicEventUpdated}, f.publisher.Topics())
}

func TestUpdateEvent_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.UpdateEvent(context.Background(), 99, UpdateEventInput{})

	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateEvent_RequiresAllFields(t *testing.T) {
	f := newFixture(t)
	id := f.createEvent(t, "19/10/2030", "20/10/2030", 2)

	err := f.svc.UpdateEvent(context.Background(), id, UpdateEventInput{Name: "Renamed"})

	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, msgMissingFields, validationMessage(t, err))
}

func TestUpdateEvent_EndDateCheckedAgainstNewStartDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createEvent(t, "19/10/2030", "20/10/2030", 2)

	// 22/10 is after the stored start date but before the start date
	// applied earlier in the same call.
	err := f.svc.UpdateEvent(ctx, id, UpdateEventInput{
		Name:         "Concert",
		StartDate:    "25/10/2030",
		EndDate:      "22/10/2030",
		TotalTickets: 2,
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, msgEndBeforeStart, validationMessage(t, err))

	// Moving both dates past the old end date works because the end date
	// is compared with the new start date.
	err = f.svc.UpdateEvent(ctx, id, UpdateEventInput{
		Name:         "Concert",
		StartDate:    "25/10/2030",
		EndDate:      "26/10/2030",
		TotalTickets: 2,
	})
	require.NoError(t, err)
}

func TestUpdateEvent_BelowSoldLeavesEventUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createEvent(t, "19/10/2030", "20/10/2030", 5)
	for i := 0; i < 3; i++ {
		f.sell(t, id)
	}

	err := f.svc.UpdateEvent(ctx, id, UpdateEventInput{
		Name:         "Renamed",
		StartDate:    "21/10/2030",
		EndDate:      "22/10/2030",
		TotalTickets: 2,
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, msgTicketsBelowSold, validationMessage(t, err))

	view, err := f.svc.GetEventDetails(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Concert", view.Name)
	assert.Equal(t, "19/10/2030", FormatDate(view.StartDate))
	assert.Equal(t, "20/10/2030", FormatDate(view.EndDate))
	assert.Equal(t, 5, view.TotalTickets)
	assert.Equal(t, 3, view.TicketsSold)
}

func TestUpdateEvent_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      UpdateEventInput
		message string
	}{
		{
			name:    "start in the past",
			in:      UpdateEventInput{Name: "Concert", StartDate: "01/10/2030", EndDate: "20/10/2030", TotalTickets: 2},
			message: msgStartInPast,
		},
		{
			name:    "too many tickets",
			in:      UpdateEventInput{Name: "Concert", StartDate: "19/10/2030", EndDate: "20/10/2030", TotalTickets: 500},
			message: msgTicketsOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.createEvent(t, "19/10/2030", "20/10/2030", 2)

			err := f.svc.UpdateEvent(context.Background(), id, tt.in)

			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.message, validationMessage(t, err))
		})
	}
}

func TestUpdateEvent_BadDateReportsParseError(t *testing.T) {
	f := newFixture(t)
	id := f.createEvent(t, "19/10/2030", "20/10/2030", 2)

	err := f.svc.UpdateEvent(context.Background(), id, UpdateEventInput{
		Name:         "Concert",
		StartDate:    "19/10/2030",
		EndDate:      "32/10/2030",
		TotalTickets: 2,
	})

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "out of range")
}

func TestDeleteEvent_WithoutSales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createEvent(t, "19/10/2030", "20/10/2030", 2)

	require.NoError(t, f.svc.DeleteEvent(ctx, id))

	_, err := f.svc.GetEventDetails(ctx, id)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteEvent_SoldTicketsBlockUntilEventEnds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createEvent(t, "19/10/2030", "20/10/2030", 2)
	sale := f.sell(t, id)

	err := f.svc.DeleteEvent(ctx, id)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, msgCannotDeleteActive, validationMessage(t, err))

	f.clock.Set(day(21, 10, 2030))
	require.NoError(t, f.svc.DeleteEvent(ctx, id))

	_, err = f.svc.GetTicket(ctx, sale.TicketID)
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.Contains(t, f.publisher.Topics(), TopicEventDeleted)
}

func TestDeleteEvent_AllowedFromMidnightOfEndDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createEvent(t, "19/10/2030", "20/10/2030", 2)
	f.sell(t, id)

	f.clock.Set(time.Date(2030, 10, 19, 23, 59, 59, 0, time.UTC))
	require.ErrorIs(t, f.svc.DeleteEvent(ctx, id), ErrValidation)

	f.clock.Set(time.Date(2030, 10, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.svc.DeleteEvent(ctx, id))
}

func TestDeleteEvent_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.DeleteEvent(context.Background(), 7)

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetEventDetails_UsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createEvent(t, "19/10/2030", "20/10/2030", 2)

	first, err := f.svc.GetEventDetails(ctx, id)
	require.NoError(t, err)
	second, err := f.svc.GetEventDetails(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.cache.hits)

	f.sell(t, id)
	third, err := f.svc.GetEventDetails(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, third.TicketsSold)
}

func TestGetEventDetails_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetEventDetails(context.Background(), 1)

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestListEvents_Empty(t *testing.T) {
	f := newFixture(t)

	listing, err := f.svc.ListEvents(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ListingEmpty, listing.Result)
	assert.Empty(t, listing.Events)
}

func TestListEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.createEvent(t, "15/10/2030", "20/10/2030", 3)
	second := f.createEvent(t, "19/10/2030", "20/10/2030", 1)

	sale := f.sell(t, first)
	f.sell(t, first)
	require.NoError(t, f.svc.RedeemTicket(ctx, sale.TicketID))

	listing, err := f.svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Equal(t, ListingFound, listing.Result)
	require.Len(t, listing.Events, 2)

	assert.Equal(t, first, listing.Events[0].ID)
	assert.Equal(t, 2, listing.Events[0].TicketsSold)
	assert.Equal(t, int64(1), listing.Events[0].TicketsRedeemed)
	assert.Equal(t, second, listing.Events[1].ID)
	assert.Equal(t, 0, listing.Events[1].TicketsSold)
	assert.Equal(t, int64(0), listing.Events[1].TicketsRedeemed)
}
