package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/central-university-dev/go-wanbit/internal/bot/command"
	"github.com/central-university-dev/go-wanbit/internal/bot/welcome"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

func (s *Set) adminCommands() []*command.Definition {
	return []*command.Definition{
		{
			Name:        "hidetag",
			Description: "Menciona todos os membros do grupo de forma oculta.",
			Usage:       "hidetag <texto>",
			Triggers:    []string{"hidetag"},
			Tier:        models.TierAdmin,
			GroupOnly:   true,
			Handler:     hidetag,
		},
		{
			Name:        "boasvindas",
			Description: "Configura a mensagem de boas-vindas: texto, on, off ou padrao.",
			Usage:       "boasvindas <texto|on|off|padrao>",
			Triggers:    []string{"boasvindas", "welcome"},
			Tier:        models.TierAdmin,
			GroupOnly:   true,
			Handler:     s.configureWelcome,
		},
	}
}

// hidetag повторяет текст или процитированную картинку с упоминанием всех участников.
func hidetag(ctx context.Context, c *command.Context) error {
	roster, err := c.Roster(ctx)
	if err != nil {
		return command.WrapDanger(err, "Não foi possível obter os participantes do grupo.")
	}

	participants := roster.IDs()
	quoted := c.Message.Quoted

	if quoted != nil && quoted.Media == models.MediaImage {
		data, err := c.DownloadImage(ctx)
		if err != nil {
			return command.WrapDanger(err, "Não foi possível baixar a imagem.")
		}

		return c.SendImage(ctx, data, quoted.Text, participants...)
	}

	text := c.FullArgs
	if quoted != nil && quoted.Text != "" {
		text = quoted.Text
	}

	return c.SendMentions(ctx, text, participants...)
}

// configureWelcome без аргументов показывает текущую настройку приветствия.
func (s *Set) configureWelcome(ctx context.Context, c *command.Context) error {
	if ok, err := groupOnly(ctx, c); !ok {
		return err
	}

	group, err := s.deps.Welcome.GetGroup(ctx, c.ChatID)
	if err != nil {
		return command.WrapDanger(err, "Não foi possível ler as configurações do grupo.")
	}

	enabled, template := true, ""
	if group != nil {
		enabled, template = group.WelcomeEnabled, group.WelcomeMessage
	}

	arg := strings.TrimSpace(c.FullArgs)

	switch strings.ToLower(arg) {
	case "":
		return c.SendReply(ctx, welcomeStatus(c.Prefix, enabled, template))
	case "on":
		enabled = true
	case "off":
		enabled = false
	case "padrao", "padrão":
		enabled, template = true, ""
	default:
		_, _, err := welcome.Render(arg, welcome.Variables{
			MemberID:   c.SenderID,
			MemberName: displayName(c),
			GroupName:  "Grupo",
			At:         s.deps.Now(),
		})
		if err != nil {
			c.Logger().Warn("Некорректный шаблон приветствия", "error", err)
			return command.InvalidParameter("Modelo de boas-vindas inválido.")
		}

		enabled, template = true, arg
	}

	if err := s.deps.Welcome.SetWelcome(ctx, c.ChatID, enabled, template); err != nil {
		return errors.Wrap(err, "set welcome")
	}

	if !enabled {
		return c.SendSuccessReply(ctx, "Mensagem de boas-vindas desativada.")
	}

	return c.SendSuccessReply(ctx, "Mensagem de boas-vindas atualizada!")
}

func welcomeStatus(prefix string, enabled bool, template string) string {
	state := "✅ ativada"
	if !enabled {
		state = "❌ desativada"
	}

	if template == "" {
		template = welcome.DefaultTemplate
	}

	return fmt.Sprintf("*Boas-vindas:* %s\n\n*Modelo atual:*\n%s\n\n"+
		"Variáveis: {memberName}, {groupName}, {date}, {time}\n"+
		"Uso: %sboasvindas <texto|on|off|padrao>", state, template, prefix)
}
