package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"closetapi/models"
	"closetapi/palette"
	"closetapi/services"

	"github.com/Timothylock/go-signin-with-apple/apple"
	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AuthController struct {
	Google      services.GoogleServiceProvider
	FirebaseApp *firebase.App
}

func (m *AuthController) AuthRoutes(g *echo.Group) {

	g.POST("/google", func(c echo.Context) error {
		var req models.GoogleAuthSignIn
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		}
		if err := c.Validate(&req); err != nil {
			return err
		}

		payload, err := m.Google.ValidateIdToken(context.Background(), req.IdToken, os.Getenv("GOOGLE_CLIENT_ID"))
		if err != nil {
			fmt.Println("Google token rejected:", err)
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't verify credentials"})
		}

		googleId := payload.Subject
		email, _ := payload.Claims["email"].(string)
		name, _ := payload.Claims["name"].(string)
		picture, _ := payload.Claims["picture"].(string)

		db := c.Get("__db").(*gorm.DB)
		var user models.UserAccount
		var r *gorm.DB
		if email == "" {
			r = db.Where("google_id = ?", googleId).Limit(1).Find(&user)
		} else {
			r = db.Where("google_id = ? or email = ?", googleId, email).Limit(1).Find(&user)
		}
		if r.Error != nil {
			sentry.CaptureException(r.Error)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		isNew := r.RowsAffected == 0
		if isNew {
			user = models.UserAccount{
				Name:      name,
				Email:     email,
				GoogleID:  googleId,
				Platform:  models.ScanPlatform(req.Platform),
				AvatarURL: picture,
				LastIp:    c.RealIP(),
			}
			if err := db.Create(&user).Error; err != nil {
				sentry.CaptureException(err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			}
		} else {
			if user.Banned {
				return echo.ErrForbidden
			}
			user.GoogleID = googleId
			user.LastIp = c.RealIP()
			user.Platform = models.ScanPlatform(req.Platform)
			if user.AvatarURL == "" {
				user.AvatarURL = picture
			}
			db.Save(&user)
		}

		refreshToken, err := GenerateRefreshToken(fmt.Sprint(user.ID))
		if err != nil {
			fmt.Println(err)
			return echo.ErrInternalServerError
		}
		return c.JSON(http.StatusOK, models.TokenPairOut{
			AccessToken:  GenerateUserToken(fmt.Sprint(user.ID), c, 72),
			RefreshToken: refreshToken,
			New:          isNew,
		})
	})

	g.POST("/apple", func(c echo.Context) error {
		var req models.AppleAuthRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		}
		if err := c.Validate(&req); err != nil {
			return err
		}

		teamID := os.Getenv("APPLE_TEAM_ID")
		keyID := os.Getenv("APPLE_KEY_ID")
		clientID := os.Getenv("APPLE_CLIENT_ID")

		secret, err := services.DecodeBase64EnvPrivateKey("APPLE_SIGNIN_PKEY_BASE64")
		if err != nil {
			log.Println("Error getting Apple private key:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		secret, err = apple.GenerateClientSecret(secret, teamID, clientID, keyID)
		if err != nil {
			log.Println("Error generating Apple client secret:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		client := apple.New()
		vReq := apple.AppValidationTokenRequest{
			ClientID:     clientID,
			ClientSecret: secret,
			Code:         req.AuthorizationCode,
		}

		var resp apple.ValidationResponse
		err = client.VerifyAppToken(context.Background(), vReq, &resp)
		if err != nil {
			fmt.Println("error verifying: " + err.Error())
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't verify credentials"})
		}
		if resp.Error != "" {
			fmt.Printf("apple returned an error: %s - %s\n", resp.Error, resp.ErrorDescription)
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't verify credentials through Apple"})
		}

		unique, err := apple.GetUniqueID(resp.IDToken)
		if err != nil {
			fmt.Println("failed to get unique ID: " + err.Error())
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't get your unique identifier"})
		}

		claim, err := apple.GetClaims(resp.IDToken)
		if err != nil {
			fmt.Println("failed to get claims: " + err.Error())
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't get your information"})
		}

		appleEmail, ok := (*claim)["email"].(string)
		if !ok {
			fmt.Println("[Apple signin] no email in token")
		}

		db := c.Get("__db").(*gorm.DB)
		var user models.UserAccount
		var r *gorm.DB
		if appleEmail == "" {
			r = db.Where("apple_id = ?", unique).Limit(1).Find(&user)
		} else {
			r = db.Where("apple_id = ? or email = ?", unique, appleEmail).Limit(1).Find(&user)
		}
		if r.Error != nil {
			sentry.CaptureException(r.Error)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		isNew := r.RowsAffected == 0
		if isNew {
			user = models.UserAccount{
				Email:    appleEmail,
				AppleID:  unique,
				Platform: models.ScanPlatform(req.Platform),
				LastIp:   c.RealIP(),
			}
			if err := db.Create(&user).Error; err != nil {
				sentry.CaptureException(err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			}
		} else {
			if user.Banned {
				return echo.ErrForbidden
			}
			user.AppleID = unique
			user.LastIp = c.RealIP()
			user.Platform = models.ScanPlatform(req.Platform)
			db.Save(&user)
		}

		refreshToken, err := GenerateRefreshToken(fmt.Sprint(user.ID))
		if err != nil {
			fmt.Println(err)
			return echo.ErrInternalServerError
		}
		return c.JSON(http.StatusOK, models.TokenPairOut{
			AccessToken:  GenerateUserToken(fmt.Sprint(user.ID), c, 72),
			RefreshToken: refreshToken,
			New:          isNew,
		})
	})

	g.POST("/refresh-token", func(c echo.Context) error {
		var tokenReq models.RefreshTokenIn
		if err := c.Bind(&tokenReq); err != nil {
			fmt.Println(err)
			return echo.ErrBadRequest
		}
		if tokenReq.RefreshToken == "" {
			fmt.Println("Refresh token is empty")
			return echo.ErrBadRequest
		}

		token, err := jwt.Parse(tokenReq.RefreshToken, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil {
			fmt.Println(err)
			return echo.ErrBadRequest
		}
		if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
			db := c.Get("__db").(*gorm.DB)
			data, convOk := claims["sub"].(string)
			if !convOk {
				fmt.Println("Cannot convert sub to string!")
				return echo.ErrInternalServerError
			}
			userId, err := strconv.Atoi(data)
			if err != nil {
				fmt.Println("Error parsing sub of the user!!", err)
				return echo.ErrInternalServerError
			}
			if userId < 1 {
				fmt.Println("Refresh: sub is:", userId)
				return echo.ErrBadRequest
			}
			var user models.UserAccount
			result := db.First(&user, userId)
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				fmt.Println("Requested user not found!", userId)
				return echo.ErrForbidden
			}
			if result.Error != nil {
				fmt.Println("Error getting user while refreshing token", userId)
				return echo.ErrInternalServerError
			}
			if user.Banned {
				return echo.ErrUnauthorized
			}

			refreshToken, err := GenerateRefreshToken(fmt.Sprint(userId))
			if err != nil {
				fmt.Println("Error refreshing token ", err)
				return echo.ErrInternalServerError
			}
			return c.JSON(http.StatusOK, models.TokenPairOut{
				AccessToken:  GenerateUserToken(fmt.Sprint(userId), c, 72),
				RefreshToken: refreshToken,
			})
		}

		return echo.ErrBadRequest
	})
}

func (m *AuthController) ProfileRoutes(g *echo.Group) {

	g.GET("/me", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		return c.JSON(http.StatusOK, models.UserMeOut{
			Id:                   user.ID,
			Name:                 user.Name,
			Email:                user.Email,
			AvatarURL:            user.AvatarURL,
			ReceiveNotifications: user.ReceiveNotifications,
			ColorSeason:          user.ColorSeason,
		})
	})

	g.PATCH("/me", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)

		var req models.UserUpdateIn
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		}
		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.ReceiveNotifications != nil {
			user.ReceiveNotifications = *req.ReceiveNotifications
		}
		if req.ColorSeason != nil {
			if *req.ColorSeason == "" {
				user.ColorSeason = nil
			} else {
				if !palette.ValidSeasonName(*req.ColorSeason) {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown color season"})
				}
				user.ColorSeason = req.ColorSeason
			}
		}
		if err := db.Save(&user).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		return c.JSON(http.StatusOK, models.UserMeOut{
			Id:                   user.ID,
			Name:                 user.Name,
			Email:                user.Email,
			AvatarURL:            user.AvatarURL,
			ReceiveNotifications: user.ReceiveNotifications,
			ColorSeason:          user.ColorSeason,
		})
	})

	g.POST("/device-token", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)

		var req models.UserPushIn
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		}
		if err := c.Validate(&req); err != nil {
			return err
		}

		var pushToken models.UserPushToken
		r := db.Where("token = ?", req.Token).Limit(1).Find(&pushToken)
		if r.Error != nil {
			sentry.CaptureException(r.Error)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		if r.RowsAffected == 0 {
			pushToken = models.UserPushToken{
				UserAccountID: user.ID,
				Platform:      models.ScanPlatform(req.Platform),
				Token:         req.Token,
				Active:        true,
			}
			if err := db.Create(&pushToken).Error; err != nil {
				sentry.CaptureException(err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			}
		} else {
			pushToken.UserAccountID = user.ID
			pushToken.Platform = models.ScanPlatform(req.Platform)
			pushToken.Active = true
			db.Save(&pushToken)
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
