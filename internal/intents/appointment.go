package intents

import (
	"context"
	"fmt"
	"time"

	"github.com/verdeflow/verde-assistant-service/types"
)

const conflictLookback = 24 * time.Hour

// buildInterval computes the effective [start, end) interval for a day.
// All-day spans 00:00 to 23:59; timed intervals must have start < end.
func buildInterval(day time.Time, startTime, endTime string, allDay bool) (time.Time, time.Time, error) {
	base := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	if allDay {
		return base, base.Add(23*time.Hour + 59*time.Minute), nil
	}

	start, err := atTime(base, startTime)
	if err != nil {
		return time.Time{}, time.Time{}, types.NewError(types.ErrInvalidRange, "invalid start time %q", startTime)
	}
	end := start.Add(time.Hour)
	if endTime != "" {
		end, err = atTime(base, endTime)
		if err != nil {
			return time.Time{}, time.Time{}, types.NewError(types.ErrInvalidRange, "invalid end time %q", endTime)
		}
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, types.NewError(types.ErrInvalidRange, "start %s is not before end %s", startTime, endTime)
	}
	return start, end, nil
}

func atTime(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// checkConflict flags any existing appointment of the owner whose [start,
// end) interval intersects the new one. Only appointments starting within
// the lookback window before the new start are fetched; touching endpoints
// do not conflict (half-open intervals).
func checkConflict(ctx context.Context, deps *Dependencies, newStart, newEnd time.Time) error {
	windowStart := newStart.Add(-conflictLookback)
	var existing []types.Appointment
	filter := map[string]string{
		"start_time": "gte." + windowStart.Format(time.RFC3339),
	}
	if err := deps.Store.Find(ctx, "appointments", filter, &existing); err != nil {
		return types.NewError(types.ErrExecution, "failed to load appointments: %v", err)
	}

	for i := range existing {
		start, end, err := existing[i].Interval()
		if err != nil {
			continue
		}
		if start.Before(newEnd) && end.After(newStart) {
			return types.NewError(types.ErrScheduleConflict,
				"conflicts with %q at %s", existing[i].Title, start.Format("02/01 15:04"))
		}
	}
	return nil
}

// CreateAppointment is the executor behind the create_appointment intent.
func CreateAppointment(ctx context.Context, deps *Dependencies, ownerID string, params map[string]interface{}) (*types.ExecutionResult, error) {
	day, err := time.Parse("2006-01-02", paramString(params, "date"))
	if err != nil {
		return nil, types.NewError(types.ErrInvalidRange, "invalid date %q", paramString(params, "date"))
	}
	start, end, err := buildInterval(day, paramString(params, "start_time"), paramString(params, "end_time"), paramBool(params, "all_day"))
	if err != nil {
		return nil, err
	}
	if err := checkConflict(ctx, deps, start, end); err != nil {
		return nil, err
	}

	appt := types.Appointment{
		ID:      deps.newID(),
		OwnerID: ownerID,
		Title:   paramString(params, "title"),
		Start:   start.Format(time.RFC3339),
		End:     end.Format(time.RFC3339),
		AllDay:  paramBool(params, "all_day"),
		Status:  "scheduled",
	}
	if name := paramString(params, "client_name"); name != "" {
		if client, err := resolveClientByName(ctx, deps, name); err == nil {
			appt.ClientID = client.ID
		}
	}
	if err := deps.Store.Insert(ctx, "appointments", &appt, nil); err != nil {
		return nil, types.NewError(types.ErrExecution, "failed to create appointment: %v", err)
	}

	return &types.ExecutionResult{
		ID:      appt.ID,
		Message: fmt.Sprintf("Agendamento %q criado para %s.", appt.Title, start.Format("02/01/2006 15:04")),
		Data:    appt,
	}, nil
}

// ListAppointments is the executor behind the list_appointments intent. With
// a date it returns that day's appointments, otherwise the next upcoming ones.
func ListAppointments(ctx context.Context, deps *Dependencies, ownerID string, params map[string]interface{}) (*types.ExecutionResult, error) {
	filter := map[string]string{}
	if ds := paramString(params, "date"); ds != "" {
		day, err := time.Parse("2006-01-02", ds)
		if err != nil {
			return nil, types.NewError(types.ErrInvalidRange, "invalid date %q", ds)
		}
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		filter["start_time"] = "gte." + dayStart.Format(time.RFC3339)
		// second constraint on the same column; the store strips the #suffix
		filter["start_time#upper"] = "lt." + dayStart.Add(24*time.Hour).Format(time.RFC3339)
	} else {
		filter["start_time"] = "gte." + deps.now().UTC().Format(time.RFC3339)
	}

	var appts []types.Appointment
	if err := deps.Store.Find(ctx, "appointments", filter, &appts); err != nil {
		return nil, types.NewError(types.ErrExecution, "failed to load appointments: %v", err)
	}
	return &types.ExecutionResult{
		Message: fmt.Sprintf("%d agendamento(s) encontrado(s).", len(appts)),
		Data:    appts,
	}, nil
}
