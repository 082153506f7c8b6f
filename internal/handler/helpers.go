package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"

	"zamar-backend/internal/storage"
	"zamar-backend/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var validate = newValidator()

// newValidator reports fields by their json or form name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// bindJSON parses the body into dst and validates its struct tags. On failure
// it has already written the 400 response and returns a non-nil error.
func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		return err
	}
	if err := validate.Struct(dst); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
		return err
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

// statusFor maps usecase sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, usecase.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, usecase.ErrInvalidState):
		return fiber.StatusConflict
	case errors.Is(err, usecase.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrInvalidReferral), errors.Is(err, usecase.ErrInvalidSignature):
		return fiber.StatusBadRequest
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// usecaseError writes err with its mapped status. Internal errors get the
// generic fallback message instead of err's text.
func usecaseError(c *fiber.Ctx, err error, fallback string) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = fallback
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
}

// uploadFile stores an uploaded form file under folder and returns its key.
func uploadFile(c *fiber.Ctx, store storage.Storage, log *logrus.Logger, folder string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := storage.NewKey(folder, fh.Filename)
	if err := store.Put(c.UserContext(), key, fh.Header.Get(fiber.HeaderContentType), f); err != nil {
		log.WithError(err).WithField("key", key).Error("upload failed")
		return "", err
	}
	return key, nil
}

// discardUploads removes objects stored for a request that failed afterwards.
func discardUploads(c *fiber.Ctx, store storage.Storage, log *logrus.Logger, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := store.Delete(c.UserContext(), key); err != nil {
			log.WithError(err).WithField("key", key).Warn("orphaned upload not removed")
		}
	}
}
