package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zen-systems/hybridgate/pkg/backend"
	"github.com/zen-systems/hybridgate/pkg/config"
	"github.com/zen-systems/hybridgate/pkg/pipeline"
	"github.com/zen-systems/hybridgate/pkg/router"
)

var (
	configFile string
	debugFlag  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hybridgate",
		Short: "Hybrid LLM router balancing cost, latency, and quality",
		Long: `Hybridgate routes prompts to the backend that best balances cost,
	latency, and expected answer quality: a small local model, a large
	model, or a cloud fallback. Failed or low-quality responses fall back
	automatically along a bounded chain.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to routing config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(distillCmd())
	rootCmd.AddCommand(backendsCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	var priorityFlag string
	var noFallback bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Route a prompt and return the response",
		Long: `Routes the prompt to the best backend for the requested priority and
	returns the response along with the routing decision. Transport
	failures fall back to the cloud backend; low-quality small-model
	responses are retried on the large backend.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := args[0]

			priority, err := router.ParsePriority(priorityFlag)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			registry, err := createRegistry(cfg)
			if err != nil {
				return fmt.Errorf("failed to create backends: %w", err)
			}

			orch := pipeline.New(registry, cfg.RoutingConfig, pipeline.WithDebug(debugFlag))
			result, err := orch.Run(cmd.Context(), prompt, priority, !noFallback)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(result)
			}

			fmt.Fprintf(os.Stderr, "Backend: %s (confidence %.2f)\n", result.BackendUsed, result.Decision.Confidence)
			fmt.Fprintf(os.Stderr, "Reason: %s\n", result.Decision.Reason)
			fmt.Fprintf(os.Stderr, "Estimated cost: $%.6f, latency: %.2fs\n",
				result.Decision.EstimatedCost, result.Decision.EstimatedLatency)
			if result.FallbackUsed {
				fmt.Fprintf(os.Stderr, "Fallback used: %s\n", result.FallbackReason)
			}
			fmt.Println(result.Response)
			return nil
		},
	}

	cmd.Flags().StringVar(&priorityFlag, "priority", "balanced", "routing priority: cost, balanced, or speed")
	cmd.Flags().BoolVar(&noFallback, "no-fallback", false, "disable backend fallback")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full result as JSON")

	return cmd
}

func routeCmd() *cobra.Command {
	var priorityFlag string

	cmd := &cobra.Command{
		Use:   "route [prompt]",
		Short: "Show the routing decision without calling a backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := args[0]

			priority, err := router.ParsePriority(priorityFlag)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			registry, err := createRegistry(cfg)
			if err != nil {
				return fmt.Errorf("failed to create backends: %w", err)
			}

			features := router.Extract(prompt)
			policy := router.NewPolicy(cfg.RoutingConfig)
			decision, err := policy.Decide(features, priority, registry.Snapshot())
			if err != nil {
				return err
			}

			return printJSON(decision)
		},
	}

	cmd.Flags().StringVar(&priorityFlag, "priority", "balanced", "routing priority: cost, balanced, or speed")

	return cmd
}

func distillCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "distill [prompt]",
		Short: "Refine a prompt on the small backend, then answer on the strongest one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			registry, err := createRegistry(cfg)
			if err != nil {
				return fmt.Errorf("failed to create backends: %w", err)
			}

			orch := pipeline.New(registry, cfg.RoutingConfig, pipeline.WithDebug(debugFlag))
			result, err := pipeline.NewDistiller(orch).Distill(cmd.Context(), prompt)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(result)
			}

			if result.DistillationUsed {
				fmt.Fprintf(os.Stderr, "Refined prompt: %s\n", result.RefinedPrompt)
			} else {
				fmt.Fprintln(os.Stderr, "Refinement skipped, original prompt used")
			}
			fmt.Fprintf(os.Stderr, "Backend: %s\n", result.BackendUsed)
			fmt.Println(result.FinalResponse)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full result as JSON")

	return cmd
}

func backendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List configured backends and their availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			registry, err := createRegistry(cfg)
			if err != nil {
				return fmt.Errorf("failed to create backends: %w", err)
			}
			avail := registry.Refresh(cmd.Context())

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIER\tPROVIDER\tMODEL\tAVAILABLE")
			for _, kind := range backend.Kinds {
				bc, ok := cfg.RoutingConfig.Backends[kind.String()]
				if !ok {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", kind, bc.Provider, bc.Model, avail.ForKind(kind))
			}
			return w.Flush()
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the routing configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.RoutingConfig.Validate(); err != nil {
				return err
			}
			fmt.Println("Configuration is valid")
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadWithRoutingFile(configFile)
	}
	return config.Load()
}

// createRegistry builds one backend per configured tier. Hosted tiers
// without an API key are left out of the registry and show up as
// unavailable rather than failing startup.
func createRegistry(cfg *config.Config) (*backend.Registry, error) {
	backends := make(map[backend.Kind]backend.Backend)

	for tier, bc := range cfg.RoutingConfig.Backends {
		kind, err := backend.ParseKind(tier)
		if err != nil {
			return nil, err
		}
		profile := cfg.RoutingConfig.ProfileFor(kind)

		switch bc.Provider {
		case "ollama":
			backends[kind] = backend.NewOllamaBackend(kind, bc.Endpoint, bc.Model, bc.MaxTokens, profile)
		case "google":
			key := cfg.KeyForProvider("google")
			if key == "" {
				continue
			}
			b, err := backend.NewGoogleBackend(kind, key, bc.Model, profile)
			if err != nil {
				return nil, err
			}
			backends[kind] = b
		case "openai":
			key := cfg.KeyForProvider("openai")
			if key == "" {
				continue
			}
			b, err := backend.NewOpenAIBackend(kind, key, bc.Model, bc.MaxTokens, profile)
			if err != nil {
				return nil, err
			}
			backends[kind] = b
		case "anthropic":
			key := cfg.KeyForProvider("anthropic")
			if key == "" {
				continue
			}
			b, err := backend.NewAnthropicBackend(kind, key, bc.Model, bc.MaxTokens, profile)
			if err != nil {
				return nil, err
			}
			backends[kind] = b
		case "mock":
			backends[kind] = backend.NewMockBackend(kind)
		default:
			return nil, fmt.Errorf("backend %s: unknown provider %q", tier, bc.Provider)
		}
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("no backends configured")
	}
	return backend.NewRegistry(backends), nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
