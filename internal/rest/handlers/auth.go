package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todotrek/internal/auth"
	authform "todotrek/internal/rest/forms/auth"
	"todotrek/internal/rest/response"
)

type Auth struct {
	log     *logrus.Entry
	svc     AuthService
	require gin.HandlerFunc
}

func NewAuthHandler(svc AuthService, require gin.HandlerFunc, log *logrus.Entry) *Auth {
	return &Auth{log: log, svc: svc, require: require}
}

func (h *Auth) EnrichRoutes(router *gin.Engine) {
	authRoutes := router.Group("/auth")
	authRoutes.POST("/sign_up", h.signUpAction)
	authRoutes.POST("/sign_in", h.signInAction)
	authRoutes.POST("/register/google_account", h.registerGoogleAction)
	authRoutes.POST("/email/verify", h.verifyEmailAction)
	authRoutes.POST("/user/send-email-verification", h.resendVerificationAction)
	authRoutes.POST("/user/send-password-reset", h.requestPasswordResetAction)
	authRoutes.PUT("/user/reset-password", h.resetPasswordAction)
	authRoutes.GET("/current_user", h.require, h.currentUserAction)
	authRoutes.POST("/user/telegram", h.require, h.linkTelegramAction)
}

type sessionResponse struct {
	Message string `json:"message,omitempty"`
	*auth.Session
}

func (h *Auth) signUpAction(c *gin.Context) {
	const op = "handlers.Auth.signUpAction"
	log := h.log.WithField("operation", op)

	form, verr := authform.NewSignUpForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*authform.SignUpForm)

	session, err := h.svc.SignUp(c.Request.Context(), auth.SignUpInput{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
	})
	if err != nil {
		log.WithError(err).Warn("sign up failed")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{Message: "Account has been created successfully", Session: session})
}

func (h *Auth) signInAction(c *gin.Context) {
	const op = "handlers.Auth.signInAction"
	log := h.log.WithField("operation", op)

	form, verr := authform.NewSignInForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*authform.SignInForm)

	session, err := h.svc.SignIn(c.Request.Context(), f.Email, f.Password)
	if err != nil {
		log.WithError(err).Info("sign in rejected")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{Session: session})
}

func (h *Auth) registerGoogleAction(c *gin.Context) {
	const op = "handlers.Auth.registerGoogleAction"
	log := h.log.WithField("operation", op)

	form, verr := authform.NewGoogleForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*authform.GoogleForm)

	session, err := h.svc.RegisterGoogle(c.Request.Context(), auth.GoogleInput{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		GoogleID:  f.GoogleID,
	})
	if err != nil {
		log.WithError(err).Info("google registration rejected")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{Session: session})
}

func (h *Auth) verifyEmailAction(c *gin.Context) {
	const op = "handlers.Auth.verifyEmailAction"
	log := h.log.WithField("operation", op)

	if err := h.svc.VerifyEmail(c.Request.Context(), authform.QueryToken(c)); err != nil {
		log.WithError(err).Info("email verification rejected")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, message{Message: "Email Verified Successfully"})
}

func (h *Auth) resendVerificationAction(c *gin.Context) {
	const op = "handlers.Auth.resendVerificationAction"
	log := h.log.WithField("operation", op)

	form, verr := authform.NewEmailForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}

	if err := h.svc.ResendVerification(c.Request.Context(), form.(*authform.EmailForm).Email); err != nil {
		log.WithError(err).Info("resend verification rejected")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, message{Message: "Email has been sent successfully"})
}

func (h *Auth) requestPasswordResetAction(c *gin.Context) {
	const op = "handlers.Auth.requestPasswordResetAction"
	log := h.log.WithField("operation", op)

	form, verr := authform.NewEmailForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), form.(*authform.EmailForm).Email); err != nil {
		log.WithError(err).Info("password reset request rejected")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, message{Message: "Email has been sent successfully"})
}

func (h *Auth) resetPasswordAction(c *gin.Context) {
	const op = "handlers.Auth.resetPasswordAction"
	log := h.log.WithField("operation", op)

	form, verr := authform.NewResetPasswordForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*authform.ResetPasswordForm)

	if err := h.svc.ResetPassword(c.Request.Context(), f.Token, f.Password); err != nil {
		log.WithError(err).Info("password reset rejected")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, message{Message: "Password reset successfully"})
}

func (h *Auth) currentUserAction(c *gin.Context) {
	const op = "handlers.Auth.currentUserAction"
	log := h.log.WithField("operation", op)

	user, err := h.svc.CurrentUser(c.Request.Context(), actorID(c))
	if err != nil {
		log.WithError(err).Warn("load current user")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Auth) linkTelegramAction(c *gin.Context) {
	const op = "handlers.Auth.linkTelegramAction"
	log := h.log.WithField("operation", op)

	form, verr := authform.NewTelegramForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}

	if err := h.svc.LinkTelegram(c.Request.Context(), actorID(c), form.(*authform.TelegramForm).ChatID); err != nil {
		log.WithError(err).Warn("link telegram")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, message{Message: "Telegram chat linked"})
}
