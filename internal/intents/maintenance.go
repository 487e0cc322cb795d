package intents

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/verdeflow/verde-assistant-service/types"
)

// resolvePlan loads a maintenance plan owned by the caller.
func resolvePlan(ctx context.Context, deps *Dependencies, planID string) (*types.MaintenancePlan, error) {
	var plans []types.MaintenancePlan
	if err := deps.Store.Find(ctx, "maintenance_plans", map[string]string{"id": "eq." + planID}, &plans); err != nil {
		return nil, types.NewError(types.ErrExecution, "failed to load plan: %v", err)
	}
	if len(plans) == 0 {
		return nil, types.NewError(types.ErrNotFound, "maintenance plan %s not found", planID)
	}
	return &plans[0], nil
}

// findExecution returns the PlanExecution row for a (plan, cycle) pair, or
// nil when no cycle record exists yet.
func findExecution(ctx context.Context, deps *Dependencies, planID, cycle string) (*types.PlanExecution, error) {
	var execs []types.PlanExecution
	filter := map[string]string{"plan_id": "eq." + planID, "cycle": "eq." + cycle}
	if err := deps.Store.Find(ctx, "plan_executions", filter, &execs); err != nil {
		return nil, types.NewError(types.ErrExecution, "failed to load plan executions: %v", err)
	}
	if len(execs) == 0 {
		return nil, nil
	}
	return &execs[0], nil
}

// GeneratePlanAppointment creates the appointment for a plan's current
// cycle. Calling it twice in the same (plan, year-month) cycle returns the
// first appointment id instead of creating a duplicate.
//
// The write is two-phase: the appointment insert is authoritative; the
// extended-fields patch and the execution link are best effort and a failure
// there is logged, never rolled back.
func GeneratePlanAppointment(ctx context.Context, deps *Dependencies, ownerID string, req *types.GeneratePlanAppointmentRequest) (*types.ExecutionResult, error) {
	plan, err := resolvePlan(ctx, deps, req.PlanID)
	if err != nil {
		return nil, err
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidRange, "invalid date %q", req.Date)
	}
	startTime := req.StartTime
	if startTime == "" && !req.AllDay {
		startTime = "08:00"
	}
	start, end, err := buildInterval(day, startTime, req.EndTime, req.AllDay)
	if err != nil {
		return nil, err
	}

	cycle := types.CycleOf(day)
	execution, err := findExecution(ctx, deps, plan.ID, cycle)
	if err != nil {
		return nil, err
	}
	if execution != nil && execution.AppointmentID != "" {
		return &types.ExecutionResult{
			ID:      execution.AppointmentID,
			Existed: true,
			Message: fmt.Sprintf("Agendamento do plano %q já gerado para o ciclo %s.", plan.Name, cycle),
		}, nil
	}

	if err := checkConflict(ctx, deps, start, end); err != nil {
		return nil, err
	}

	appt := types.Appointment{
		ID:       deps.newID(),
		OwnerID:  ownerID,
		Title:    plan.Name,
		Start:    start.Format(time.RFC3339),
		AllDay:   req.AllDay,
		ClientID: plan.ClientID,
		Status:   "scheduled",
	}
	if err := deps.Store.Insert(ctx, "appointments", &appt, nil); err != nil {
		return nil, types.NewError(types.ErrExecution, "failed to create appointment: %v", err)
	}

	// Phase two: extended fields.
	patch := map[string]interface{}{
		"end_time": end.Format(time.RFC3339),
		"type":     "maintenance",
	}
	if err := deps.Store.Update(ctx, "appointments", appt.ID, patch); err != nil {
		log.Printf("plan %s: extended fields update failed for appointment %s: %v", plan.ID, appt.ID, err)
	}

	linkExecution(ctx, deps, ownerID, execution, plan.ID, cycle, appt.ID, "")

	return &types.ExecutionResult{
		ID:      appt.ID,
		Message: fmt.Sprintf("Agendamento do plano %q criado para %s.", plan.Name, start.Format("02/01/2006 15:04")),
		Data:    appt,
	}, nil
}

// GenerateMonthlyTask is the executor behind the generate_monthly_task
// intent: it materializes a plan's work item for the current cycle, once.
func GenerateMonthlyTask(ctx context.Context, deps *Dependencies, ownerID string, params map[string]interface{}) (*types.ExecutionResult, error) {
	plan, err := resolvePlan(ctx, deps, paramString(params, "plan_id"))
	if err != nil {
		return nil, err
	}

	day := deps.now()
	if ds := paramString(params, "date"); ds != "" {
		day, err = time.Parse("2006-01-02", ds)
		if err != nil {
			return nil, types.NewError(types.ErrInvalidRange, "invalid date %q", ds)
		}
	}

	cycle := types.CycleOf(day)
	execution, err := findExecution(ctx, deps, plan.ID, cycle)
	if err != nil {
		return nil, err
	}
	if execution != nil && execution.TaskID != "" {
		return &types.ExecutionResult{
			ID:      execution.TaskID,
			Existed: true,
			Message: fmt.Sprintf("Tarefa do plano %q já gerada para o ciclo %s.", plan.Name, cycle),
		}, nil
	}

	task := types.Task{
		ID:      deps.newID(),
		OwnerID: ownerID,
		Title:   fmt.Sprintf("%s (%s)", plan.Name, cycle),
		DueDate: day.Format("2006-01-02"),
		PlanID:  plan.ID,
		Status:  "pending",
	}
	if err := deps.Store.Insert(ctx, "tasks", &task, nil); err != nil {
		return nil, types.NewError(types.ErrExecution, "failed to create task: %v", err)
	}

	linkExecution(ctx, deps, ownerID, execution, plan.ID, cycle, "", task.ID)

	return &types.ExecutionResult{
		ID:      task.ID,
		Message: fmt.Sprintf("Tarefa do plano %q gerada para o ciclo %s.", plan.Name, cycle),
		Data:    task,
	}, nil
}

// linkExecution updates the cycle record or creates it. Best effort: the
// generated appointment/task stands on its own if the link write fails.
func linkExecution(ctx context.Context, deps *Dependencies, ownerID string, execution *types.PlanExecution, planID, cycle, appointmentID, taskID string) {
	if execution != nil {
		patch := map[string]interface{}{}
		if appointmentID != "" {
			patch["appointment_id"] = appointmentID
		}
		if taskID != "" {
			patch["task_id"] = taskID
		}
		if err := deps.Store.Update(ctx, "plan_executions", execution.ID, patch); err != nil {
			log.Printf("plan %s: execution link update failed for cycle %s: %v", planID, cycle, err)
		}
		return
	}

	row := types.PlanExecution{
		ID:            deps.newID(),
		OwnerID:       ownerID,
		PlanID:        planID,
		Cycle:         cycle,
		AppointmentID: appointmentID,
		TaskID:        taskID,
	}
	if err := deps.Store.Insert(ctx, "plan_executions", &row, nil); err != nil {
		log.Printf("plan %s: execution link insert failed for cycle %s: %v", planID, cycle, err)
	}
}
