package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/reillywatson/agentfiles/agent"
	"github.com/reillywatson/agentfiles/config"
	"github.com/reillywatson/agentfiles/filemanager"
	"github.com/reillywatson/agentfiles/logging"
	"github.com/reillywatson/agentfiles/metrics"
	"github.com/reillywatson/agentfiles/resource"
	"github.com/reillywatson/agentfiles/storage"
)

var (
	outputDir     = flag.String("dir", "", "shared output directory (overrides OUTPUT_ROOT_DIR)")
	agentDir      = flag.String("agent-dir", "", "agent output directory template (overrides AGENT_OUTPUT_DIR)")
	storageType   = flag.String("storage-type", "", "LOCAL or REMOTE (overrides STORAGE_TYPE)")
	s3Bucket      = flag.String("s3-bucket", "", "Amazon S3 bucket name")
	gcsBucket     = flag.String("gcs-bucket", "", "Google Cloud Storage bucket name")
	catalogDir    = flag.String("catalog-dir", "", "resource catalog directory (overrides CATALOG_DIR)")
	agentID       = flag.Int64("agent", 0, "agent id; 0 writes to the shared directory")
	agentName     = flag.String("agent-name", "", "agent name")
	executionID   = flag.Int64("execution", 0, "agent execution id")
	executionName = flag.String("execution-name", "", "agent execution name")
	metricsAddr   = flag.String("metrics-addr", "", "serve Prometheus metrics on this address")
	verbose       = flag.Bool("verbose", false, "print detail log")
)

const usage = `usage: agentfiles [flags] <command> [args]

commands:
  write <name> <content|->    write text, html or csv content (- reads stdin)
  write-binary <name> <file>  copy a local file as a binary artifact
  read <name>                 print a file
  list                        list files in the current scope
  mirror                      upload every file in the current scope
  catalog                     print the resource catalog as JSON
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	applyFlags(cfg)

	logger := logging.NewOrNop(cfg.Logging.Level, cfg.Logging.Development)
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger, flag.Args()); err != nil {
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config) {
	if *outputDir != "" {
		cfg.Paths.OutputRoot = *outputDir
	}
	if *agentDir != "" {
		cfg.Paths.AgentTemplate = *agentDir
	}
	if *storageType != "" {
		cfg.Storage.Type = *storageType
	}
	if *s3Bucket != "" {
		cfg.Storage.S3Bucket = *s3Bucket
	}
	if *gcsBucket != "" {
		cfg.Storage.GCSBucket = *gcsBucket
	}
	if *catalogDir != "" {
		cfg.Catalog.Dir = *catalogDir
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	st, err := resource.ParseStorageType(cfg.Storage.Type)
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		metrics.Init()
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	catalog, err := resource.OpenBadgerCatalog(cfg.Catalog.Dir, st, cfg.Storage.RemotePrefix)
	if err != nil {
		return err
	}
	defer catalog.Close()

	registry, err := registryFromFlags()
	if err != nil {
		return err
	}

	disk, rs := storage.New(ctx, cfg.Storage, logger)
	if rs != nil {
		defer rs.Close()
	}

	fm := filemanager.New(filemanager.Deps{
		Registry:          registry,
		Resolver:          resource.NewPathResolver(cfg.Paths.OutputRoot, cfg.Paths.AgentTemplate),
		Catalog:           catalog,
		Local:             disk,
		Remote:            rs,
		Logger:            logger,
		MirrorConcurrency: cfg.Storage.MirrorConcurrency,
	}, filemanager.Scope{AgentID: *agentID, ExecutionID: *executionID})

	defer func() {
		logger.Debug("storage summary", zap.String("local", disk.Summary()))
		if rs != nil {
			logger.Debug("storage summary", zap.String("remote", rs.Summary()))
		}
	}()

	return dispatch(ctx, fm, catalog, args, os.Stdin, os.Stdout)
}

func dispatch(ctx context.Context, fm *filemanager.FileManager, catalog resource.Catalog, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "write":
		if len(rest) != 2 {
			return fmt.Errorf("write: want <name> <content>")
		}
		content, err := writeContent(rest[0], rest[1], stdin)
		if err != nil {
			return err
		}
		return report(stdout, fm.WriteFile(ctx, rest[0], content, false))
	case "write-binary":
		if len(rest) != 2 {
			return fmt.Errorf("write-binary: want <name> <file>")
		}
		data, err := os.ReadFile(rest[1])
		if err != nil {
			return err
		}
		return report(stdout, fm.WriteBinaryFile(ctx, rest[0], data))
	case "read":
		if len(rest) != 1 {
			return fmt.Errorf("read: want <name>")
		}
		content, err := fm.ReadFileContent(ctx, rest[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", rest[0], err)
		}
		_, err = fmt.Fprintln(stdout, content)
		return err
	case "list":
		for _, name := range fm.GetFiles(ctx) {
			fmt.Fprintln(stdout, name)
		}
		return nil
	case "mirror":
		return fm.MirrorAll(ctx)
	case "catalog":
		resources, err := catalog.List(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resources)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// writeContent turns a command line argument into content for WriteFile.
// CSV text is parsed into a single group of rows.
func writeContent(name, arg string, stdin io.Reader) (any, error) {
	text := arg
	if arg == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		text = string(b)
	}
	if filemanager.FileTypeOf(name) != filemanager.CSV {
		return text, nil
	}
	rows, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return [][][]string{rows}, nil
}

func report(w io.Writer, msg string) error {
	if filemanager.IsErrorMessage(msg) {
		return errors.New(msg)
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}

func registryFromFlags() (*agent.MemoryRegistry, error) {
	registry := agent.NewMemoryRegistry()
	if *agentID == 0 {
		return registry, nil
	}
	registry.AddAgent(agent.Agent{ID: *agentID, Name: *agentName})
	if *executionID != 0 {
		if err := registry.AddExecution(agent.Execution{ID: *executionID, AgentID: *agentID, Name: *executionName}); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
