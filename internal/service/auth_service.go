package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/minishop/internal/auth"
	"github.com/mmynk/minishop/internal/metrics"
	"github.com/mmynk/minishop/internal/middleware"
	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/pkg/shopapi"
)

// PrincipalResolver maps an authenticated username to its User.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, username string) (*models.User, error)
}

var _ shopapi.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	identity      PrincipalResolver
	jwtManager    *auth.JWTManager
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. m may be nil.
func NewAuthService(authenticator auth.Authenticator, identity PrincipalResolver, jwtManager *auth.JWTManager, m *metrics.Metrics, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		identity:      identity,
		jwtManager:    jwtManager,
		metrics:       m,
		logger:        logger,
	}
}

// Register creates a new user account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[shopapi.RegisterRequest]) (*connect.Response[shopapi.RegisterResponse], error) {
	s.logger.Info("Register request", "username", req.Msg.Username)

	user, err := s.authenticator.Register(ctx, req.Msg.Username, req.Msg.FullName, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "username", req.Msg.Username, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.Registered()

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	return connect.NewResponse(&shopapi.RegisterResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Login authenticates a user and returns a bearer token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[shopapi.LoginRequest]) (*connect.Response[shopapi.LoginResponse], error) {
	s.logger.Info("Login request", "username", req.Msg.Username)

	if req.Msg.Username == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Username, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", req.Msg.Username, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "username", user.Username)
	return connect.NewResponse(&shopapi.LoginResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// GetCurrentUser returns the caller's account. The handler must run behind
// an auth interceptor.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[shopapi.GetCurrentUserRequest]) (*connect.Response[shopapi.GetCurrentUserResponse], error) {
	username := middleware.GetUsername(ctx)
	if username == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.identity.ResolvePrincipal(ctx, username)
	if err != nil {
		s.logger.Error("Failed to resolve principal", "username", username, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&shopapi.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
