package commands

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/central-university-dev/go-wanbit/internal/bot/command"
	"github.com/central-university-dev/go-wanbit/internal/bot/media"
	"github.com/central-university-dev/go-wanbit/internal/bot/notify"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const maxAttpRunes = 60

func (s *Set) sticker(ctx context.Context, c *command.Context) error {
	if !c.IsImage() && !c.IsVideo() {
		return command.Warning("Por favor, envie ou marque uma imagem ou vídeo para criar uma figurinha.")
	}

	if err := c.SendWaitReact(ctx); err != nil {
		c.Logger().Warn("Не удалось отправить реакцию", "error", err)
	}

	var (
		data []byte
		err  error
	)

	if c.IsImage() {
		data, err = c.DownloadImage(ctx)
	} else {
		data, err = c.DownloadVideo(ctx)
	}

	if err != nil {
		return command.WrapDanger(err, "Não foi possível baixar a mídia.")
	}

	var sticker []byte

	if c.IsImage() {
		sticker, err = s.deps.Stickers.ImageSticker(ctx, data)
	} else {
		sticker, err = s.deps.Stickers.VideoSticker(ctx, data)
	}

	if err != nil {
		return command.WrapDanger(err, "Tente novamente.")
	}

	if err := c.SendSticker(ctx, withPackInfo(c, sticker)); err != nil {
		return err
	}

	return c.SendSuccessReact(ctx)
}

func (s *Set) attp(ctx context.Context, c *command.Context) error {
	text := strings.TrimSpace(c.FullArgs)
	if text == "" {
		return command.Warning("Por favor, forneça um texto. Uso: %sattp <texto>", c.Prefix)
	}

	if utf8.RuneCountInString(text) > maxAttpRunes {
		return command.Warning("O texto deve ter no máximo %d caracteres.", maxAttpRunes)
	}

	if err := c.SendWaitReact(ctx); err != nil {
		c.Logger().Warn("Не удалось отправить реакцию", "error", err)
	}

	sticker, err := s.deps.Stickers.TextSticker(ctx, text)
	if err != nil {
		return command.WrapDanger(err, "Não foi possível criar a figurinha. Tente um texto menor.")
	}

	if err := c.SendSticker(ctx, withPackInfo(c, sticker)); err != nil {
		return err
	}

	return c.SendSuccessReact(ctx)
}

// withPackInfo подписывает стикер именем автора запроса и бота. Если WebP
// не разобрался, стикер уходит без подписи.
func withPackInfo(c *command.Context, sticker []byte) []byte {
	packID := c.BotName
	if c.Message != nil {
		packID += "-" + c.Message.ID
	}

	signed, err := media.WithExif(sticker, media.StickerMetadata{
		PackID:    packID,
		PackName:  fmt.Sprintf("Solicitado por: %s \n\n", displayName(c)),
		Publisher: fmt.Sprintf("Criado por: %s | %s", c.BotName, c.BotLink),
	})
	if err != nil {
		c.Logger().Warn("Не удалось записать метаданные стикера", "error", err)
		return sticker
	}

	return signed
}

func (s *Set) toImage(ctx context.Context, c *command.Context) error {
	if !c.IsSticker() {
		return command.Warning("Marque uma figurinha para convertê-la em imagem.")
	}

	data, err := c.DownloadSticker(ctx)
	if err != nil {
		return command.WrapDanger(err, "Não foi possível baixar a figurinha.")
	}

	png, err := media.WebPToPNG(data)
	if err != nil {
		c.Logger().Warn("Не удалось декодировать стикер", "error", err)
		return command.Warning("Figurinhas animadas não podem ser convertidas em imagem.")
	}

	return c.SendImage(ctx, png, "")
}

func (s *Set) gpt(ctx context.Context, c *command.Context) error {
	prompt := strings.TrimSpace(c.FullArgs)
	if prompt == "" {
		return command.Warning("Por favor, forneça uma mensagem para o ChatGPT.")
	}

	if err := c.SendWaitReact(ctx); err != nil {
		c.Logger().Warn("Не удалось отправить реакцию", "error", err)
	}

	system := fmt.Sprintf("Você é o assistente oficial chamado %s. Seu prefixo de comandos é %s. "+
		"Caso o usuário queira acessar o grupo oficial, informe o link %s. "+
		"Caso o usuário queira acessar o menu, apresente o comando %smenu para ver todas as opções disponíveis. "+
		"Responda sempre de forma clara, amigável e organizada.",
		c.BotName, c.Prefix, c.BotLink, c.Prefix)

	answer, err := s.deps.AI.Complete(ctx, system, prompt)
	if err != nil {
		return command.WrapDanger(err, "Desculpe, ocorreu um erro ao processar sua solicitação.")
	}

	if err := c.SendReply(ctx, answer); err != nil {
		return err
	}

	return c.SendSuccessReact(ctx)
}

func (s *Set) suggest(ctx context.Context, c *command.Context) error {
	text := strings.TrimSpace(c.FullArgs)
	if text == "" {
		return c.SendTextWithoutEmoji(ctx, fmt.Sprintf(
			"Por favor, forneça uma sugestão após o comando.\nUso: %ssugestao sua sugestão aqui", c.Prefix))
	}

	suggestion := &models.Suggestion{
		SenderID:  c.SenderID,
		ChatID:    c.ChatID,
		PushName:  c.PushName,
		Text:      text,
		CreatedAt: s.deps.Now(),
	}

	if err := c.SendToOwner(ctx, notify.FormatSuggestion(suggestion)); err != nil {
		c.Logger().Error("Не удалось переслать предложение владельцу", "error", err)
		return c.SendErrorReply(ctx, "Por favor, tente novamente mais tarde.")
	}

	if s.deps.Suggestions != nil {
		if err := s.deps.Suggestions.NotifySuggestion(ctx, suggestion); err != nil {
			c.Logger().Warn("Не удалось опубликовать предложение", "error", err)
		}
	}

	return c.SendSuccessReply(ctx, "Obrigado pela sua sugestão! Ela foi recebida com sucesso.")
}
