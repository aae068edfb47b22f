package usecase

import "github.com/fardannozami/bible-reading-tracker/internal/domain"

// Set wires every use case to one store and reading plan.
type Set struct {
	ListParticipants  *ListParticipantsUsecase
	AddParticipant    *AddParticipantUsecase
	RemoveParticipant *RemoveParticipantUsecase
	Session           *SessionUsecase
	MarkComplete      *MarkCompleteUsecase
	Today             *GetTodayUsecase
	Progress          *GetProgressUsecase
	Dashboard         *GetDashboardUsecase
	UserDetail        *GetUserDetailUsecase
	AdminOverview     *AdminOverviewUsecase
	WeeklyReport      *WeeklyReportUsecase
	Monitor           *MonitorUsecase
	Export            *ExportUsecase
	Leaderboard       *GetLeaderboardUsecase
	Reminder          *ReminderUsecase
	HandleMessage     *HandleMessageUsecase
}

func NewSet(store domain.Store, schedule domain.Schedule) *Set {
	s := &Set{
		ListParticipants:  NewListParticipantsUsecase(store),
		AddParticipant:    NewAddParticipantUsecase(store),
		RemoveParticipant: NewRemoveParticipantUsecase(store),
		Session:           NewSessionUsecase(store),
		MarkComplete:      NewMarkCompleteUsecase(store, schedule),
		Today:             NewGetTodayUsecase(store, schedule),
		Progress:          NewGetProgressUsecase(store, schedule),
		Dashboard:         NewGetDashboardUsecase(store, schedule),
		UserDetail:        NewGetUserDetailUsecase(store, schedule),
		AdminOverview:     NewAdminOverviewUsecase(store, schedule),
		WeeklyReport:      NewWeeklyReportUsecase(store, schedule),
		Monitor:           NewMonitorUsecase(store),
		Export:            NewExportUsecase(store, schedule),
		Leaderboard:       NewGetLeaderboardUsecase(store, schedule),
	}
	s.Reminder = NewReminderUsecase(schedule, s.WeeklyReport)
	s.HandleMessage = NewHandleMessageUsecase(store, s.MarkComplete, s.Today, s.Progress, s.Leaderboard)
	return s
}
