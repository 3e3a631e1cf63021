package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fonelab/repairshopgo/internal/middleware"
	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TOTPRequest carries the second-factor code for a pending login
type TOTPRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// RegisterRequest represents a staff registration request
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
}

// genericLoginError is returned for both unknown email and wrong password
// so the two cases cannot be told apart from outside
const genericLoginError = "邮箱或密码错误"

// login handles credential login. Accounts with a registered second factor
// get a short-lived pending token and must finish at /auth/totp.
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, genericLoginError)
		return
	}

	var user models.UserAuth
	if err := r.db.Where("email = ?", loginReq.Email).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, genericLoginError)
		return
	}

	if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		r.db.Model(&user).Update("failed_login_attempts", user.FailedLoginAttempts+1)
		respondError(w, http.StatusUnauthorized, genericLoginError)
		return
	}

	if user.TOTPEnabled {
		pending, err := utils.GeneratePendingToken(&user, r.cfg.JWTSecret)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "登录失败")
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "totp",
			"msg":    "请输入动态验证码",
			"token":  pending,
		})
		return
	}

	r.issueSession(w, &user)
}

// verifyTOTP exchanges a pending token plus a valid code for a full session
func (r *Router) verifyTOTP(w http.ResponseWriter, req *http.Request) {
	var totpReq TOTPRequest
	if err := json.NewDecoder(req.Body).Decode(&totpReq); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&totpReq); err != nil {
		respondError(w, http.StatusBadRequest, "验证码格式错误")
		return
	}

	authHeader := req.Header.Get("Authorization")
	tokenString := ""
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		tokenString = authHeader[7:]
	}

	claims, err := utils.ValidateToken(tokenString, r.cfg.JWTSecret)
	if err != nil || !utils.IsPendingSecondFactor(claims) {
		respondError(w, http.StatusUnauthorized, "登录状态已失效，请重新登录")
		return
	}

	userID, _ := claims["id"].(string)
	var user models.UserAuth
	if err := r.db.First(&user, "id = ?", userID).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "登录状态已失效，请重新登录")
		return
	}

	if !utils.VerifyTOTP(totpReq.Code, user.TOTPSecret) {
		respondError(w, http.StatusUnauthorized, "验证码错误")
		return
	}

	r.issueSession(w, &user)
}

// issueSession writes the session cookie and token response for a fully
// verified user
func (r *Router) issueSession(w http.ResponseWriter, user *models.UserAuth) {
	token, err := utils.GenerateSessionToken(user, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "登录失败")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	r.db.Model(user).Update("last_login", now)

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((24 * time.Hour).Seconds()),
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"msg":    "登录成功",
		"token":  token,
		"user":   user,
	})
}

// register creates a staff account
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var regReq RegisterRequest
	if err := json.NewDecoder(req.Body).Decode(&regReq); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&regReq); err != nil {
		respondError(w, http.StatusBadRequest, "注册信息不完整")
		return
	}

	hashedPassword, err := utils.HashPassword(regReq.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "注册失败")
		return
	}

	user := models.UserAuth{
		Username: regReq.Username,
		Email:    regReq.Email,
		Password: hashedPassword,
		Name:     regReq.Name,
	}

	if err := r.db.Create(&user).Error; err != nil {
		respondError(w, http.StatusBadRequest, "注册失败，用户名或邮箱已存在")
		return
	}

	respondSuccess(w, "注册成功")
}

// logout clears the session cookie
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:   middleware.SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	respondSuccess(w, "已退出登录")
}

// currentUser returns the account behind the session
func (r *Router) currentUser(w http.ResponseWriter, req *http.Request) {
	claims := middleware.UserClaims(req.Context())
	userID, _ := claims["id"].(string)

	var user models.UserAuth
	if err := r.db.First(&user, "id = ?", userID).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "请先登录")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// enrollTOTP sets up the second factor for the current account. The first
// call generates and stores a secret; a follow-up call carrying a valid
// code switches the account to TOTP-required logins.
func (r *Router) enrollTOTP(w http.ResponseWriter, req *http.Request) {
	claims := middleware.UserClaims(req.Context())
	userID, _ := claims["id"].(string)

	var user models.UserAuth
	if err := r.db.First(&user, "id = ?", userID).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "请先登录")
		return
	}

	var body struct {
		Code string `json:"code"`
	}
	_ = json.NewDecoder(req.Body).Decode(&body)

	if body.Code == "" {
		secret, err := utils.GenerateTOTPSecret(user.Email)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "二次验证开启失败")
			return
		}
		if err := r.db.Model(&user).Update("totp_secret", secret).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "二次验证开启失败")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "success",
			"msg":    "请使用验证器扫描密钥",
			"secret": secret,
		})
		return
	}

	if user.TOTPSecret == "" || !utils.VerifyTOTP(body.Code, user.TOTPSecret) {
		respondError(w, http.StatusBadRequest, "验证码错误")
		return
	}
	if err := r.db.Model(&user).Update("totp_enabled", true).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "二次验证开启失败")
		return
	}
	respondSuccess(w, "二次验证已开启")
}
