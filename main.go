package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orayew2002/paperwork/config"
	"github.com/orayew2002/paperwork/domain"
	"github.com/orayew2002/paperwork/paperwork"
	"github.com/orayew2002/paperwork/scaffold"
	"github.com/orayew2002/paperwork/server"
)

var (
	configPath string
	noPDF      bool
	force      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "paperwork",
		Short:         "Fill loadsheet and timesheet templates from JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml (default: ./config.toml, then next to the binary)")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a document from a JSON payload",
	}
	for _, doc := range []domain.DocumentType{domain.Loadsheet, domain.Timesheet} {
		cmd := &cobra.Command{
			Use:   string(doc) + " <payload.json|->",
			Short: "Generate a " + string(doc),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runGenerate(cmd, doc, args[0])
			},
		}
		cmd.Flags().BoolVar(&noPDF, "no-pdf", false, "write the workbook only")
		generateCmd.AddCommand(cmd)
	}

	signaturesCmd := &cobra.Command{
		Use:   "signatures",
		Short: "List signature images per slot",
		Args:  cobra.NoArgs,
		RunE:  runSignatures,
	}

	templatesCmd := &cobra.Command{Use: "templates", Short: "Manage template workbooks"}
	templatesInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write skeleton templates into the templates directory",
		Args:  cobra.NoArgs,
		RunE:  runTemplatesInit,
	}
	templatesInitCmd.Flags().BoolVar(&force, "force", false, "overwrite existing templates")
	templatesCmd.AddCommand(templatesInitCmd)

	configCmd := &cobra.Command{Use: "config", Short: "Inspect or create configuration"}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	})

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	rootCmd.AddCommand(generateCmd, signaturesCmd, templatesCmd, configCmd, serveCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration, builds the logger and the generator.
func setup() (*config.AppConfig, *zap.Logger, *paperwork.Generator, error) {
	cfg, info, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("logger: %w", err)
	}
	logger.Debug("configuration loaded", zap.String("path", info.Path), zap.Strings("env", info.EnvUsed))

	if err := config.EnsureDirs(cfg); err != nil {
		return nil, nil, nil, err
	}

	gen, err := paperwork.FromConfig(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, gen, nil
}

func runGenerate(cmd *cobra.Command, doc domain.DocumentType, src string) error {
	_, logger, gen, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	data, err := readPayload(cmd.InOrStdin(), src)
	if err != nil {
		return err
	}

	var payload interface {
		Validate() error
	}
	switch doc {
	case domain.Loadsheet:
		payload = &domain.LoadsheetRequest{}
	case domain.Timesheet:
		payload = &domain.TimesheetRequest{}
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return fmt.Errorf("parse %s: %w", src, err)
	}
	if err := payload.Validate(); err != nil {
		return err
	}
	domain.FillDerived(payload)

	if noPDF {
		no := false
		switch req := payload.(type) {
		case *domain.LoadsheetRequest:
			req.IncludePDF = &no
		case *domain.TimesheetRequest:
			req.IncludePDF = &no
		}
	}

	res, err := gen.Generate(cmd.Context(), doc, payload)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func readPayload(stdin io.Reader, src string) ([]byte, error) {
	if src == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	return data, nil
}

func runSignatures(cmd *cobra.Command, _ []string) error {
	_, logger, gen, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	for _, slot := range domain.Slots() {
		names, err := gen.ListSignatures(slot)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", slot)
		for _, n := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", n)
		}
	}
	return nil
}

func runTemplatesInit(cmd *cobra.Command, _ []string) error {
	cfg, logger, gen, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	written, err := scaffold.InitDir(gen.Registry(), cfg.Paths.Templates, force)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "templates already present (use --force to overwrite)")
	}
	for _, p := range written {
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", p)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.FileName
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, gen, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.NewServer(cfg, gen, logger.Named("http")).Run(ctx, cfg.Addr())
}
