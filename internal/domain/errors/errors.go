package errors

import (
	"fmt"
)

type ErrUnknownCommand struct {
	Command string
}

func (e *ErrUnknownCommand) Error() string {
	return "неизвестная команда: " + e.Command
}

func (e *ErrUnknownCommand) Is(target error) bool {
	_, ok := target.(*ErrUnknownCommand)
	return ok
}

// ErrCommandCollision возвращается при загрузке реестра, если два триггера нормализуются в один токен.
type ErrCommandCollision struct {
	Token  string
	First  string
	Second string
	Tiers  [2]string
}

func (e *ErrCommandCollision) Error() string {
	return fmt.Sprintf("конфликт триггеров %q: команда %q (%s) и команда %q (%s)",
		e.Token, e.First, e.Tiers[0], e.Second, e.Tiers[1])
}

func (e *ErrCommandCollision) Is(target error) bool {
	_, ok := target.(*ErrCommandCollision)
	return ok
}

type ErrInvalidTrigger struct {
	Command string
	Trigger string
}

func (e *ErrInvalidTrigger) Error() string {
	return fmt.Sprintf("триггер %q команды %q пуст после нормализации", e.Trigger, e.Command)
}

func (e *ErrInvalidTrigger) Is(target error) bool {
	_, ok := target.(*ErrInvalidTrigger)
	return ok
}

type ErrGroupNotFound struct {
	GroupID string
}

func (e *ErrGroupNotFound) Error() string {
	return "группа не найдена: " + e.GroupID
}

func (e *ErrGroupNotFound) Is(target error) bool {
	_, ok := target.(*ErrGroupNotFound)
	return ok
}

type ErrUserNotFound struct {
	UserID string
}

func (e *ErrUserNotFound) Error() string {
	return "пользователь не найден: " + e.UserID
}

func (e *ErrUserNotFound) Is(target error) bool {
	_, ok := target.(*ErrUserNotFound)
	return ok
}

// ErrLimitReached означает, что дневной лимит действия в группе уже исчерпан.
type ErrLimitReached struct {
	Action  string
	UserID  string
	GroupID string
}

func (e *ErrLimitReached) Error() string {
	return fmt.Sprintf("лимит действия %s исчерпан для %s в группе %s", e.Action, e.UserID, e.GroupID)
}

func (e *ErrLimitReached) Is(target error) bool {
	_, ok := target.(*ErrLimitReached)
	return ok
}

type ErrInsufficientPoints struct {
	UserID    string
	Balance   int64
	Requested int64
}

func (e *ErrInsufficientPoints) Error() string {
	return fmt.Sprintf("недостаточно очков у %s: баланс %d, запрошено %d", e.UserID, e.Balance, e.Requested)
}

func (e *ErrInsufficientPoints) Is(target error) bool {
	_, ok := target.(*ErrInsufficientPoints)
	return ok
}

type ErrInvalidIdentity struct {
	ID string
}

func (e *ErrInvalidIdentity) Error() string {
	return "некорректный идентификатор: " + e.ID
}

type ErrMediaNotFound struct {
	Kind string
}

func (e *ErrMediaNotFound) Error() string {
	return "медиа не найдено: " + e.Kind
}

func (e *ErrMediaNotFound) Is(target error) bool {
	_, ok := target.(*ErrMediaNotFound)
	return ok
}

type ErrNotConnected struct {
	Transport string
}

func (e *ErrNotConnected) Error() string {
	return fmt.Sprintf("транспорт %s не подключен", e.Transport)
}

type ErrUnknownTransport struct {
	Transport string
}

func (e *ErrUnknownTransport) Error() string {
	return fmt.Sprintf("неизвестный транспорт: %s", e.Transport)
}

type ErrInvalidArgument struct {
	Message string
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("некорректный аргумент: %s", e.Message)
}

type ErrUnknownDBAccessType struct {
	AccessType string
}

func (e *ErrUnknownDBAccessType) Error() string {
	return fmt.Sprintf("неизвестный тип доступа к базе данных: %s", e.AccessType)
}

type ErrBuildSQLQuery struct {
	Operation string
	Cause     error
}

func (e *ErrBuildSQLQuery) Error() string {
	return fmt.Sprintf("ошибка при построении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrBuildSQLQuery) Unwrap() error {
	return e.Cause
}

type ErrSQLExecution struct {
	Operation string
	Cause     error
}

func (e *ErrSQLExecution) Error() string {
	return fmt.Sprintf("ошибка при выполнении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrSQLExecution) Unwrap() error {
	return e.Cause
}

type ErrSQLScan struct {
	Entity string
	Cause  error
}

func (e *ErrSQLScan) Error() string {
	return fmt.Sprintf("ошибка при сканировании %s: %v", e.Entity, e.Cause)
}

func (e *ErrSQLScan) Unwrap() error {
	return e.Cause
}

const (
	OpUpsertUser       = "upsert_user"
	OpUpsertGroup      = "upsert_group"
	OpGetGroupRental   = "get_group_rental"
	OpGetPermission    = "get_permission"
	OpGrantPermission  = "grant_permission"
	OpSetRentalDate    = "set_rental_date"
	OpGetPoints        = "get_points"
	OpGetDailyStatus   = "get_daily_status"
	OpClaimRoulette    = "claim_roulette"
	OpClaimSteal       = "claim_steal"
	OpAddPoints        = "add_points"
	OpResetDailyLimits = "reset_daily_limits"
	OpGetGroup         = "get_group"
	OpSetWelcome       = "set_welcome"
)

type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP ошибка %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("HTTP ошибка %d", e.StatusCode)
}
