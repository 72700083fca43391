package commands

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/central-university-dev/go-wanbit/internal/bot/command"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const rentalDateLayout = "2006-01-02"

var quotedGroupArgs = regexp.MustCompile(`^(\S+)\s+"([^"]+)"$`)

func (s *Set) ownerCommands() []*command.Definition {
	return []*command.Definition{
		{
			Name:        "setrentaldate",
			Description: "Define a data de expiração do aluguel de um grupo.",
			Usage:       `setrentaldate AAAA-MM-DD "Nome do grupo"`,
			Triggers:    []string{"setrentaldate", "srd"},
			Tier:        models.TierOwner,
			Handler:     s.setRentalDate,
		},
		{
			Name:        "addpermission",
			Description: "Concede acesso ao bot em conversas privadas ao usuário marcado.",
			Usage:       "addpermission @usuario",
			Triggers:    []string{"addpermission", "addperm"},
			Tier:        models.TierOwner,
			Handler:     s.addPermission,
		},
		{
			Name:        "reload",
			Description: "Recarrega a lista de comandos.",
			Triggers:    []string{"reload"},
			Tier:        models.TierOwner,
			Handler:     s.reload,
		},
	}
}

// parseRentalArgs принимает `дата "имя группы"` или `дата | имя группы`.
func parseRentalArgs(c *command.Context) (date, group string, ok bool) {
	if m := quotedGroupArgs.FindStringSubmatch(strings.TrimSpace(c.FullArgs)); m != nil {
		return m[1], m[2], true
	}

	if len(c.Args) >= 2 {
		return c.Args[0], strings.Join(c.Args[1:], " "), true
	}

	return "", "", false
}

func (s *Set) setRentalDate(ctx context.Context, c *command.Context) error {
	if len(c.Args) == 0 {
		return command.InvalidParameter("forneça a data (AAAA-MM-DD) e o nome do grupo entre aspas.")
	}

	rawDate, groupName, ok := parseRentalArgs(c)
	if !ok {
		return command.InvalidParameter(`use: data "nome do grupo" (com aspas no nome).`)
	}

	expiry, err := time.Parse(rentalDateLayout, rawDate)
	if err != nil {
		return command.InvalidParameter("data inválida. Forneça a data no formato AAAA-MM-DD.")
	}

	groups, err := c.JoinedGroups(ctx)
	if err != nil {
		return command.WrapDanger(err, "Não foi possível listar os grupos.")
	}

	group, found := findGroupByName(groups, groupName)
	if !found {
		return command.Warning("Grupo '%s' não encontrado.", groupName)
	}

	if err := s.deps.Access.SetRentalDate(ctx, group.GroupID, group.Name, expiry); err != nil {
		return command.WrapDanger(err, "Ocorreu um erro ao atualizar a data de aluguel. Tente novamente mais tarde.")
	}

	s.deps.Logger.Info("Дата аренды группы обновлена",
		"group_id", group.GroupID,
		"group", group.Name,
		"expire_rental", expiry.Format(rentalDateLayout),
	)

	return c.SendSuccessReply(ctx, fmt.Sprintf("A nova data de aluguel para o grupo '%s' foi definida para %s.",
		group.Name, expiry.Format(rentalDateLayout)))
}

func findGroupByName(groups []models.Roster, name string) (models.Roster, bool) {
	for _, group := range groups {
		if strings.EqualFold(strings.TrimSpace(group.Name), strings.TrimSpace(name)) {
			return group, true
		}
	}

	return models.Roster{}, false
}

func (s *Set) addPermission(ctx context.Context, c *command.Context) error {
	target := c.Invocation.Target()
	if target == "" {
		return command.Warning("Você precisa responder a uma mensagem ou marcar (@) o usuário!")
	}

	if err := s.deps.Access.GrantPermission(ctx, target); err != nil {
		return command.WrapDanger(err, "Não foi possível conceder a permissão.")
	}

	return c.SendSuccessReply(ctx, fmt.Sprintf("Permissão concedida ao usuário %s!", models.StorageKey(target)))
}

func (s *Set) reload(ctx context.Context, c *command.Context) error {
	if s.catalog == nil {
		return command.Danger("реестр команд не подключен")
	}

	s.catalog.Invalidate()

	if err := s.catalog.Load(ctx); err != nil {
		return command.WrapDanger(err, "Não foi possível recarregar os comandos.")
	}

	return c.SendSuccessReply(ctx, "Comandos recarregados com sucesso!")
}
