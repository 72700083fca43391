package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/central-university-dev/go-wanbit/internal/bot/command"
	"github.com/central-university-dev/go-wanbit/internal/bot/normalizer"
	domainerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const loadKey = "commands"

type Match struct {
	Definition *command.Definition
	Tier       models.AccessTier
}

type index struct {
	byTier map[models.AccessTier]map[string]*command.Definition
	size   int
}

// Registry хранит индекс триггер -> команда. Индекс неизменяем после построения
// и подменяется целиком, поэтому Lookup не берет блокировок.
type Registry struct {
	source command.Source
	logger *slog.Logger

	current atomic.Pointer[index]
	group   singleflight.Group

	// mu связывает номер поколения с публикацией индекса: загрузка, начатая до
	// Invalidate, не может сохранить устаревший индекс.
	mu         sync.Mutex
	generation uint64
}

func New(source command.Source, logger *slog.Logger) *Registry {
	return &Registry{
		source: source,
		logger: logger,
	}
}

// Load строит индекс, если он еще не построен. Одновременные вызовы разделяют одну загрузку.
func (r *Registry) Load(ctx context.Context) error {
	_, err := r.load(ctx)
	return err
}

func (r *Registry) load(ctx context.Context) (*index, error) {
	if idx := r.current.Load(); idx != nil {
		return idx, nil
	}

	v, err, _ := r.group.Do(loadKey, func() (any, error) {
		if idx := r.current.Load(); idx != nil {
			return idx, nil
		}

		gen := r.currentGeneration()

		idx, err := r.build(ctx)
		if err != nil {
			return nil, err
		}

		if !r.publish(gen, idx) {
			r.logger.Info("Реестр команд сброшен во время загрузки, результат не сохранен", "commands", idx.size)
			return idx, nil
		}

		r.logger.Info("Реестр команд загружен", "commands", idx.size)

		return idx, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*index), nil
}

func (r *Registry) currentGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.generation
}

func (r *Registry) publish(gen uint64, idx *index) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generation != gen {
		return false
	}

	r.current.Store(idx)

	return true
}

func (r *Registry) build(ctx context.Context) (*index, error) {
	grouped, err := r.source.Definitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении определений команд: %w", err)
	}

	idx := &index{byTier: make(map[models.AccessTier]map[string]*command.Definition)}
	owners := make(map[string]*command.Definition)

	for _, tier := range orderedTiers(grouped) {
		table := make(map[string]*command.Definition)

		for _, def := range grouped[tier] {
			if err := validate(def, tier); err != nil {
				return nil, err
			}

			for _, trigger := range def.Triggers {
				token := normalizer.FormatCommand(trigger)
				if token == "" {
					return nil, &domainerrors.ErrInvalidTrigger{Command: def.Name, Trigger: trigger}
				}

				if prev, ok := owners[token]; ok {
					if prev == def {
						continue
					}

					return nil, &domainerrors.ErrCommandCollision{
						Token:  token,
						First:  prev.Name,
						Second: def.Name,
						Tiers:  [2]string{string(prev.Tier), string(tier)},
					}
				}

				owners[token] = def
				table[token] = def
			}

			idx.size++
		}

		idx.byTier[tier] = table
	}

	return idx, nil
}

func validate(def *command.Definition, tier models.AccessTier) error {
	switch {
	case def == nil:
		return &domainerrors.ErrInvalidArgument{Message: "пустое определение команды"}
	case def.Handler == nil:
		return &domainerrors.ErrInvalidArgument{Message: "у команды " + def.Name + " нет обработчика"}
	case len(def.Triggers) == 0:
		return &domainerrors.ErrInvalidArgument{Message: "у команды " + def.Name + " нет триггеров"}
	case def.Tier != tier:
		return &domainerrors.ErrInvalidArgument{
			Message: fmt.Sprintf("команда %s объявлена с уровнем %s, но находится в группе %s", def.Name, def.Tier, tier),
		}
	}

	return nil
}

// orderedTiers: сначала известные уровни в фиксированном порядке, затем остальные.
func orderedTiers(grouped map[models.AccessTier][]*command.Definition) []models.AccessTier {
	tiers := make([]models.AccessTier, 0, len(grouped))
	seen := make(map[models.AccessTier]bool, len(models.Tiers))

	for _, tier := range models.Tiers {
		seen[tier] = true

		if _, ok := grouped[tier]; ok {
			tiers = append(tiers, tier)
		}
	}

	for tier := range grouped {
		if !seen[tier] {
			tiers = append(tiers, tier)
		}
	}

	return tiers
}

// Lookup ищет команду по нормализованному токену точным совпадением.
func (r *Registry) Lookup(ctx context.Context, token string) (Match, error) {
	if token == "" {
		return Match{}, &domainerrors.ErrUnknownCommand{Command: token}
	}

	idx, err := r.load(ctx)
	if err != nil {
		return Match{}, err
	}

	for _, tier := range models.Tiers {
		if def, ok := idx.byTier[tier][token]; ok {
			return Match{Definition: def, Tier: tier}, nil
		}
	}

	for tier, table := range idx.byTier {
		if tier == models.TierMember || tier == models.TierAdmin || tier == models.TierOwner {
			continue
		}

		if def, ok := table[token]; ok {
			return Match{Definition: def, Tier: tier}, nil
		}
	}

	return Match{}, &domainerrors.ErrUnknownCommand{Command: token}
}

// Invalidate сбрасывает индекс; следующий Load или Lookup перечитает источник,
// даже если загрузка уже идет.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.generation++
	r.current.Store(nil)
	r.group.Forget(loadKey)
	r.mu.Unlock()

	r.logger.Info("Кэш реестра команд сброшен")
}

// Definitions возвращает команды уровня, отсортированные по имени.
func (r *Registry) Definitions(ctx context.Context, tier models.AccessTier) ([]*command.Definition, error) {
	idx, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[*command.Definition]bool)
	defs := make([]*command.Definition, 0, len(idx.byTier[tier]))

	for _, def := range idx.byTier[tier] {
		if !seen[def] {
			seen[def] = true
			defs = append(defs, def)
		}
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	return defs, nil
}
