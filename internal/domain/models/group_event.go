package models

import "time"

type GroupAction string

const (
	GroupJoin    GroupAction = "join"
	GroupLeave   GroupAction = "leave"
	GroupPromote GroupAction = "promote"
	GroupDemote  GroupAction = "demote"
)

// GroupEvent - изменение состава группы или прав ее участников.
type GroupEvent struct {
	GroupID      string
	Action       GroupAction
	Participants []string
	// Names - отображаемые имена участников, если транспорт их сообщает.
	Names     map[string]string
	ActorID   string
	Timestamp time.Time
}

// ChangesAdmins сообщает, меняет ли событие список администраторов группы.
func (e *GroupEvent) ChangesAdmins() bool {
	return e.Action == GroupPromote || e.Action == GroupDemote || e.Action == GroupLeave
}
