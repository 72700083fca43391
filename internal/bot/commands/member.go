package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/central-university-dev/go-wanbit/internal/bot/command"
	customerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const (
	replyGroupOnly      = "Este comando só pode ser usado em grupos!"
	replyRouletteLimit  = "você já jogou a roleta russa hoje neste grupo. Tente novamente amanhã!"
	replyStealLimit     = "você já roubou pontos hoje neste grupo. Tente novamente amanhã!"
	replyStealNoTarget  = "Você precisa responder a uma mensagem ou marcar (@) o usuário para roubar!"
	replyStealSelf      = "Você não pode roubar pontos de si mesmo!"
	replyStealNoBalance = "Esse usuário não tem pontos suficientes para roubar! " +
		"Ele tem %d pontos e você tentou roubar %d pontos."
)

func (s *Set) memberCommands() []*command.Definition {
	return []*command.Definition{
		{
			Name:        "ping",
			Description: "Verifica se o bot está respondendo.",
			Triggers:    []string{"ping"},
			Tier:        models.TierMember,
			Handler:     ping,
		},
		{
			Name:        "menu",
			Description: "Mostra o menu de comandos.",
			Triggers:    []string{"menu"},
			Tier:        models.TierMember,
			Handler:     s.menu,
		},
		{
			Name:        "menugrupo",
			Description: "Mostra os comandos que funcionam apenas em grupos.",
			Triggers:    []string{"menugrupo"},
			Tier:        models.TierMember,
			Handler:     s.groupMenu,
		},
		{
			Name:        "perfil",
			Description: "Mostra seus pontos e jogadas do dia neste grupo.",
			Triggers:    []string{"perfil", "profile"},
			Tier:        models.TierMember,
			GroupOnly:   true,
			Handler:     s.profile,
		},
		{
			Name:        "roleta",
			Description: "Jogue a roleta russa e ganhe de 0 a 100 pontos, uma vez por dia.",
			Triggers:    []string{"roleta"},
			Tier:        models.TierMember,
			GroupOnly:   true,
			Handler:     s.roulette,
		},
		{
			Name:        "roubar",
			Description: "Rouba pontos de outro usuário. Responda a mensagem do alvo ou marque-o.",
			Usage:       "roubar @usuario",
			Triggers:    []string{"roubar"},
			Tier:        models.TierMember,
			GroupOnly:   true,
			Handler:     s.steal,
		},
		{
			Name:        "sticker",
			Description: "Converte imagem ou vídeo em figurinha. Envie ou marque uma mídia.",
			Triggers:    []string{"sticker", "s", "fig"},
			Tier:        models.TierMember,
			Handler:     s.sticker,
		},
		{
			Name:        "attp",
			Description: "Cria uma figurinha animada com o seu texto colorido.",
			Usage:       "attp <texto>",
			Triggers:    []string{"attp"},
			Tier:        models.TierMember,
			Handler:     s.attp,
		},
		{
			Name:        "toimg",
			Description: "Converte uma figurinha em imagem. Marque a figurinha.",
			Triggers:    []string{"toimg"},
			Tier:        models.TierMember,
			Handler:     s.toImage,
		},
		{
			Name:        "gpt",
			Description: "Converse com a inteligência artificial.",
			Usage:       "gpt <sua pergunta>",
			Triggers:    []string{"gpt", "chatgpt"},
			Tier:        models.TierMember,
			Handler:     s.gpt,
		},
		{
			Name:        "sugestao",
			Description: "Envia uma sugestão para o desenvolvedor.",
			Usage:       "sugestao <sua sugestão>",
			Triggers:    []string{"sugestao"},
			Tier:        models.TierMember,
			Handler:     s.suggest,
		},
	}
}

func ping(ctx context.Context, c *command.Context) error {
	return c.SendReact(ctx, "🏓")
}

func (s *Set) menu(ctx context.Context, c *command.Context) error {
	header := fmt.Sprintf("*│* 🤖  Aqui estão todos os comandos do *%s*!\n*│*\n", c.BotName)
	footer := fmt.Sprintf("*│* 👥 Use *%smenugrupo* para ver os comandos de grupo.\n*│*\n", c.Prefix)

	return s.sendMenu(ctx, c, "✨ MENU DE COMANDOS ✨", header+footer, func(def *command.Definition) bool {
		return !def.GroupOnly
	})
}

func (s *Set) groupMenu(ctx context.Context, c *command.Context) error {
	header := "*│* 👥  Comandos disponíveis apenas em grupos:\n*│*\n"

	return s.sendMenu(ctx, c, "✨ MENU DO GRUPO ✨", header, func(def *command.Definition) bool {
		return def.GroupOnly
	})
}

// sendMenu выводит команды участника и администратора, прошедшие фильтр.
func (s *Set) sendMenu(ctx context.Context, c *command.Context, title, header string,
	include func(*command.Definition) bool,
) error {
	sections := []struct {
		title string
		tier  models.AccessTier
	}{
		{title: "「 ⚙️ COMANDOS 」", tier: models.TierMember},
		{title: "「 👑 ADMINISTRAÇÃO 」", tier: models.TierAdmin},
	}

	var b strings.Builder

	fmt.Fprintf(&b, "*╭─< %s >─╮*\n*│*\n", title)
	b.WriteString(header)

	for _, section := range sections {
		defs, err := s.definitions(ctx, section.tier)
		if err != nil {
			return err
		}

		var listed []*command.Definition

		for _, def := range defs {
			if include(def) {
				listed = append(listed, def)
			}
		}

		if len(listed) == 0 {
			continue
		}

		fmt.Fprintf(&b, "*├─%s──┤*\n*│*\n", section.title)

		for _, def := range listed {
			usage := def.Usage
			if usage == "" {
				usage = def.Triggers[0]
			}

			fmt.Fprintf(&b, "*│* ▫️ *%s%s* _%s_\n*│*\n", c.Prefix, usage, def.Description)
		}
	}

	b.WriteString("*╰────────────────────────╯*")

	return c.SendTextWithoutEmoji(ctx, b.String())
}

func (s *Set) definitions(ctx context.Context, tier models.AccessTier) ([]*command.Definition, error) {
	if s.catalog != nil {
		return s.catalog.Definitions(ctx, tier)
	}

	var defs []*command.Definition

	for _, def := range s.defs {
		if def.Tier == tier {
			defs = append(defs, def)
		}
	}

	return defs, nil
}

// groupOnly отвечает ошибкой вне группы; false означает, что обработчик должен завершиться.
func groupOnly(ctx context.Context, c *command.Context) (bool, error) {
	if c.IsGroup {
		return true, nil
	}

	return false, c.SendErrorReply(ctx, replyGroupOnly)
}

func displayName(c *command.Context) string {
	if c.PushName != "" {
		return c.PushName
	}

	return models.StorageKey(c.SenderID)
}

func (s *Set) profile(ctx context.Context, c *command.Context) error {
	if ok, err := groupOnly(ctx, c); !ok {
		return err
	}

	if err := c.SendWaitReact(ctx); err != nil {
		c.Logger().Warn("Не удалось отправить реакцию", "error", err)
	}

	status, err := s.deps.Points.GetDailyStatus(ctx, c.SenderID, c.ChatID)
	if err != nil {
		return command.WrapDanger(err, "Ocorreu um erro ao buscar o seu perfil. Tente novamente!")
	}

	stole := "❌"
	if status.StoleToday {
		stole = "✅"
	}

	roulette := "❌"
	if status.Roulettes > 0 {
		roulette = fmt.Sprintf("%d vezes", status.Roulettes)
	}

	name := displayName(c)

	card := fmt.Sprintf("*╭─< ✨ PERFIL DO USUÁRIO ✨ >─╮*\n"+
		"*│*\n"+
		"*│* 🤖 Olá, *%s*!\n"+
		"*│* Aqui estão as suas informações:\n"+
		"*│*\n"+
		"*├─「 👤 DADOS 」──┤*\n"+
		"*│*\n"+
		"*│* 📛 *Nome:* %s\n"+
		"*│* 💰 *Pontos:* %d\n"+
		"*│* 👤💰 *Roubou Hoje:* %s\n"+
		"*│* 🎰 *Roletou Hoje:* %s\n"+
		"*│*\n"+
		"*╰────────────────────────╯*",
		name, name, status.Points, stole, roulette)

	if err := c.SendReply(ctx, card); err != nil {
		return err
	}

	return c.SendSuccessReact(ctx)
}

func (s *Set) roulette(ctx context.Context, c *command.Context) error {
	if ok, err := groupOnly(ctx, c); !ok {
		return err
	}

	points := s.roll()

	_, err := s.deps.Points.ClaimRoulette(ctx, c.SenderID, c.ChatID, points)
	if errors.Is(err, &customerrors.ErrLimitReached{}) {
		return command.Warning(replyRouletteLimit)
	}

	if err != nil {
		return errors.Wrap(err, "claim roulette")
	}

	return c.SendSuccessReply(ctx, fmt.Sprintf("Você jogou a roleta russa e ganhou %d pontos!", points))
}

func (s *Set) steal(ctx context.Context, c *command.Context) error {
	if ok, err := groupOnly(ctx, c); !ok {
		return err
	}

	target := c.Invocation.Target()
	if target == "" {
		return command.Warning(replyStealNoTarget)
	}

	if models.SameIdentity(target, c.SenderID) {
		return command.Warning(replyStealSelf)
	}

	amount := s.roll()

	err := s.deps.Points.Steal(ctx, c.SenderID, target, c.ChatID, amount)

	var insufficient *customerrors.ErrInsufficientPoints

	switch {
	case err == nil:
	case errors.Is(err, &customerrors.ErrLimitReached{}):
		return command.Warning(replyStealLimit)
	case errors.As(err, &insufficient):
		return command.Warning(replyStealNoBalance, insufficient.Balance, amount)
	default:
		return errors.Wrap(err, "steal points")
	}

	text := fmt.Sprintf("%s Você roubou com sucesso %d pontos do usuário @%s!",
		command.BotEmoji, amount, models.StorageKey(target))

	return c.SendMentions(ctx, text, target)
}
