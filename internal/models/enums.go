package models

import "fmt"

type TaskStatus string

const (
	StatusUndone TaskStatus = "UNDONE"
	StatusDone   TaskStatus = "DONE"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusUndone, StatusDone:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown status %q, expected UNDONE or DONE", s)
}

type TaskPriority string

const (
	PriorityNone   TaskPriority = "NONE"
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(s), nil
	}
	return "", fmt.Errorf("unknown priority %q, expected NONE, LOW, MEDIUM or HIGH", s)
}

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)
