package svc

import (
	"log"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	gocache "github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/syncx"

	cachekeys "aetherius-api/internal/cache"
	"aetherius-api/internal/config"
	"aetherius-api/internal/model"
	"aetherius-api/internal/persistence"
	agentpkg "aetherius-api/pkg/agent"
	"aetherius-api/pkg/confkit"
)

type ServiceContext struct {
	Config config.Config

	AgentConfig    *agentpkg.Config
	Client         agentpkg.InferenceClient
	Analyzer       *agentpkg.Analyzer
	PromptRenderer *agentpkg.PromptRenderer

	// Optional storage collaborators; nil when no DSN is configured.
	DBConn        sqlx.SqlConn
	AnalysesModel model.AnalysesModel
	Cache         gocache.Cache
	TTL           cachekeys.TTLSet
	Persistence   *persistence.Service
}

func NewServiceContext(c config.Config) *ServiceContext {
	agentCfg := c.Agent.Value
	if agentCfg == nil {
		log.Fatalf("agent config section is required (set Agent.File in the main config)")
	}

	client, err := agentpkg.NewClient(agentCfg)
	if err != nil {
		log.Fatalf("failed to build inference client: %v", err)
	}
	analyzer, err := agentpkg.NewAnalyzer(agentCfg, client)
	if err != nil {
		log.Fatalf("failed to build analyzer: %v", err)
	}

	templatePath := c.PromptTemplate
	if templatePath != "" {
		templatePath = confkit.ResolvePath(c.BaseDir(), templatePath)
	}
	renderer, err := agentpkg.NewPromptRenderer(templatePath)
	if err != nil {
		log.Fatalf("failed to init prompt renderer: %v", err)
	}

	svc := &ServiceContext{
		Config:         c,
		AgentConfig:    agentCfg,
		Client:         client,
		Analyzer:       analyzer,
		PromptRenderer: renderer,
		TTL:            cachekeys.NewTTLSet(c.TTL),
	}

	if c.Redis.Host != "" {
		rds := redis.MustNewRedis(c.Redis)
		svc.Cache = gocache.NewNode(rds, syncx.NewSingleFlight(), gocache.NewStat(cachekeys.Namespace), model.ErrNotFound)
	}

	// Endpoints degrade to agent-only mode without a DSN.
	if c.Postgres.DSN != "" {
		conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
		svc.DBConn = conn
		svc.AnalysesModel = model.NewAnalysesModel(conn)
		svc.Persistence = persistence.NewService(persistence.Config{
			SQLConn:            conn,
			AnalysesModel:      svc.AnalysesModel,
			ConversationsModel: model.NewConversationsModel(conn),
			MessagesModel:      model.NewConversationMessagesModel(conn),
			Cache:              svc.Cache,
			TTL:                svc.TTL,
		})
	}
	return svc
}
