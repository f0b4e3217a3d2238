package app

import (
	"net/http"
	"resetme/internal/app/deps"
	"resetme/internal/app/services"
	resetpassword "resetme/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "resetme/internal/http/handlers/auth/send_password_reset_token"
	verifyresettoken "resetme/internal/http/handlers/auth/verify_reset_token"
	"resetme/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	isTestMode := deps.Config.IsTestMode
	operatorToken := deps.Config.OperatorToken

	authRouter := chi.NewRouter()
	authRouter.Method(
		http.MethodPost,
		"/password_reset/token",
		sendpasswordresettoken.New(s.IssueResetToken, isTestMode),
	)
	authRouter.Method(
		http.MethodGet,
		"/password_reset/verification",
		verifyresettoken.New(s.VerifyResetToken, deps.ConsistencyGuard, isTestMode, operatorToken),
	)
	authRouter.Method(
		http.MethodPut,
		"/password_reset",
		resetpassword.New(s.ResetPassword, deps.ConsistencyGuard, isTestMode, operatorToken),
	)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Use(middleware.RequestID)
	router.Mount("/auth", authRouter)

	return &http.Server{
		Handler: router,
		Addr:    deps.Config.HTTPAddress,
	}
}
