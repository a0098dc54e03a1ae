package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zeromicro/go-zero/core/logx"

	agentpkg "aetherius-api/pkg/agent"
	"aetherius-api/pkg/confkit"
	journalpkg "aetherius-api/pkg/journal"
)

func fatalf(format string, args ...interface{}) {
	logx.Errorf(format, args...)
	os.Exit(1)
}

func loadProfile(path string) (*agentpkg.Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	var profile agentpkg.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if strings.TrimSpace(profile.BusinessType) == "" {
		return nil, fmt.Errorf("profile %s: businessType is required", path)
	}
	return &profile, nil
}

func main() {
	var (
		agentPath    = flag.String("agent-config", "etc/agent.yaml", "path to agent configuration")
		surface      = flag.String("surface", agentpkg.SurfaceOpportunity, "analysis surface to run")
		profilePath  = flag.String("profile", "", "path to a business profile JSON file")
		message      = flag.String("message", "", "free-form message instead of a profile")
		sessionID    = flag.String("session", "", "reuse an existing agent session id")
		templatePath = flag.String("prompt-template", "", "override the built-in prompt template")
		journalDir   = flag.String("journal", "", "write audit records of each run to this directory")
	)
	flag.Parse()
	logx.MustSetup(logx.LogConf{})
	logx.DisableStat()

	if *profilePath == "" && strings.TrimSpace(*message) == "" {
		fatalf("provide --profile or --message")
	}

	confkit.LoadDotenvOnce()

	agentCfg, err := agentpkg.LoadConfig(*agentPath)
	if err != nil {
		fatalf("load agent config: %v", err)
	}
	client, err := agentpkg.NewClient(agentCfg)
	if err != nil {
		fatalf("initialise inference client: %v", err)
	}
	defer func() {
		_ = client.Close()
	}()

	analyzer, err := agentpkg.NewAnalyzer(agentCfg, client)
	if err != nil {
		fatalf("initialise analyzer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prompt := strings.TrimSpace(*message)
	var promptDigest string
	if *profilePath != "" {
		profile, err := loadProfile(*profilePath)
		if err != nil {
			fatalf("%v", err)
		}
		renderer, err := agentpkg.NewPromptRenderer(*templatePath)
		if err != nil {
			fatalf("initialise prompt renderer: %v", err)
		}
		prompt, err = renderer.Render(profile)
		if err != nil {
			fatalf("render prompt: %v", err)
		}
		promptDigest = renderer.Digest()
	}

	result, runErr := analyzer.AnalyzeSession(ctx, *surface, *sessionID, prompt)
	if *journalDir != "" {
		rec := &journalpkg.RunRecord{
			Surface:      strings.ToLower(strings.TrimSpace(*surface)),
			SessionID:    *sessionID,
			Prompt:       prompt,
			PromptDigest: promptDigest,
			Success:      runErr == nil,
		}
		if runErr != nil {
			rec.ErrorMessage = runErr.Error()
		} else {
			rec.PayloadJSON = string(result)
		}
		if _, err := journalpkg.NewWriter(*journalDir).WriteRun(rec); err != nil {
			logx.Errorf("write journal record: %v", err)
		}
	}
	if runErr != nil {
		fatalf("analyze: %v", runErr)
	}

	var pretty struct {
		Surface string          `json:"surface"`
		Result  json.RawMessage `json:"result"`
	}
	pretty.Surface = strings.ToLower(strings.TrimSpace(*surface))
	pretty.Result = result

	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		fatalf("format result: %v", err)
	}
	fmt.Println(string(out))
}
