package cmd

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/config"
	"github.com/kailas-cloud/fuzzdex/internal/db"
	logpkg "github.com/kailas-cloud/fuzzdex/internal/logger"
)

const demoTable = "people"

type person struct {
	id, name, city string
}

// samplePeople are fixed demo rows; the accented names make the
// normalizer visible in search results right after seeding.
var samplePeople = []person{
	{"p1", "João da Silva", "São Paulo"},
	{"p2", "Maria Souza", "Rio de Janeiro"},
	{"p3", "Peter Smith", "London"},
	{"p4", "Silvana Ramos", "Porto"},
	{"p5", "José Álvares", "Lisboa"},
	{"p6", "Anna Müller", "Zürich"},
	{"p7", "François Lefèvre", "Genève"},
}

var firstNames = []string{
	"Ana", "Bruno", "Carla", "Diego", "Elena", "Fábio", "Gabriela", "Hugo",
	"Inês", "João", "Karin", "Luís", "Marta", "Nuno", "Olga", "Paulo",
	"Rita", "Sérgio", "Teresa", "Vitor",
}

var lastNames = []string{
	"Almeida", "Barbosa", "Cardoso", "Dias", "Esteves", "Ferreira", "Gomes",
	"Henriques", "Lima", "Machado", "Neves", "Oliveira", "Pereira", "Ramos",
	"Silva", "Teixeira",
}

var cities = []string{
	"São Paulo", "Rio de Janeiro", "Lisboa", "Porto", "Braga", "Coimbra",
	"Salvador", "Recife",
}

type seedOptions struct {
	rows    int
	workers int
	drop    bool
}

func newSeedCmd() *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create and fill the demo people table",
		Long: `Create the demo people table in the configured store and fill it
with sample rows plus generated rows, inserted through a worker pool.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.rows, "rows", "r", 500, "Number of generated rows on top of the samples")
	cmd.Flags().IntVar(&opts.workers, "workers", runtime.NumCPU(), "Insert worker pool size")
	cmd.Flags().BoolVar(&opts.drop, "drop", false, "Drop the table first if it exists")

	return cmd
}

func runSeed(ctx context.Context, cmd *cobra.Command, opts *seedOptions) error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := openStore(cfg.Database)
	if err != nil {
		return fmt.Errorf("create search store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("search store not ready: %w", err)
	}

	def, err := db.NewTableDDL(demoTable).Key("id").Text("name", "city").Build()
	if err != nil {
		return fmt.Errorf("describe demo table: %w", err)
	}
	dialect := db.Dialect(cfg.Database.Driver)

	if opts.drop {
		if err := store.Exec(ctx, def.DropSQL()); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	if err := store.Exec(ctx, def.CreateSQL()); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	for _, stmt := range def.IndexSQL(dialect) {
		if err := store.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create trigram index: %w", err)
		}
	}

	insert := def.InsertSQL(dialect)

	for _, p := range samplePeople {
		if err := store.Exec(ctx, insert, p.id, p.name, p.city); err != nil {
			return fmt.Errorf("insert sample %s: %w", p.id, err)
		}
	}

	pool, err := ants.NewPool(opts.workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	start := time.Now()

	var wg sync.WaitGroup
	var failed atomic.Int64
	for i := 0; i < opts.rows; i++ {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			p := generatedPerson(i)
			if err := store.Exec(ctx, insert, p.id, p.name, p.city); err != nil {
				failed.Add(1)
				logger.Warn("Insert failed", zap.String("id", p.id), zap.Error(err))
			}
		}); err != nil {
			wg.Done()
			failed.Add(1)
			logger.Warn("Submit failed", zap.Error(err))
		}
	}
	wg.Wait()

	inserted := len(samplePeople) + opts.rows - int(failed.Load())
	logger.Info("Seed complete",
		zap.String("table", demoTable),
		zap.Int("inserted", inserted),
		zap.Int64("failed", failed.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d rows into %q\n", inserted, demoTable)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d insert(s) failed", n)
	}
	return nil
}

// generatedPerson derives a deterministic demo row from its index.
func generatedPerson(i int) person {
	first := firstNames[i%len(firstNames)]
	last := lastNames[(i/len(firstNames))%len(lastNames)]
	return person{
		id:   fmt.Sprintf("gen-%05d", i+1),
		name: first + " " + last,
		city: cities[i%len(cities)],
	}
}
