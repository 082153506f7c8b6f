package handler

import (
	"errors"
	"strconv"

	"zamar-backend/internal/middleware"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"
	"zamar-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SongHandler struct {
	repo  repository.SongRepository
	store storage.Storage
	log   *logrus.Logger
}

func NewSongHandler(repo repository.SongRepository, store storage.Storage, log *logrus.Logger) *SongHandler {
	return &SongHandler{repo: repo, store: store, log: log}
}

type songRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Artist      string `json:"artist" form:"artist" validate:"required,max=200"`
	Album       string `json:"album" form:"album" validate:"max=200"`
	Genre       string `json:"genre" form:"genre" validate:"max=50"`
	Scripture   string `json:"scripture" form:"scripture" validate:"max=100"`
	Lyrics      string `json:"lyrics" form:"lyrics"`
	DurationSec int    `json:"duration_sec" form:"duration_sec" validate:"min=0"`
}

// withURLs fills in host-relative media paths.
func (h *SongHandler) withURLs(s *model.Song) {
	s.AudioURL = storage.MediaPath(s.AudioKey)
	s.CoverURL = storage.MediaPath(s.CoverKey)
}

func (h *SongHandler) List(c *fiber.Ctx) error {
	filter := repository.SongFilter{
		Search:        c.Query("search"),
		Genre:         c.Query("genre"),
		PublishedOnly: true,
		Page:          c.QueryInt("page", 1),
		Limit:         c.QueryInt("limit", 20),
	}
	songs, total, err := h.repo.List(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load songs"})
	}
	for i := range songs {
		h.withURLs(&songs[i])
	}
	return c.JSON(fiber.Map{"data": songs, "total": total, "page": filter.Page})
}

func (h *SongHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	song, err := h.repo.GetPublishedByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Song not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load song"})
	}
	h.withURLs(song)
	return c.JSON(fiber.Map{"data": song})
}

func (h *SongHandler) Genres(c *fiber.Ctx) error {
	genres, err := h.repo.Genres()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load genres"})
	}
	return c.JSON(fiber.Map{"data": genres})
}

// Stream redirects to the audio object so range requests hit /media directly.
func (h *SongHandler) Stream(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	song, err := h.repo.GetPublishedByID(id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load song"})
	}
	if err != nil || song.AudioKey == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Audio not found"})
	}
	return c.Redirect(storage.MediaPath(song.AudioKey), fiber.StatusFound)
}

func (h *SongHandler) Play(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if _, err := h.repo.GetPublishedByID(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Song not found"})
	}
	if err := h.repo.RecordPlay(id, middleware.UserID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record play"})
	}
	return c.JSON(fiber.Map{"message": "Play recorded"})
}

func (h *SongHandler) AddFavorite(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if _, err := h.repo.GetPublishedByID(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Song not found"})
	}
	if err := h.repo.AddFavorite(middleware.UserID(c), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add favourite"})
	}
	return c.JSON(fiber.Map{"message": "Added to favourites"})
}

func (h *SongHandler) RemoveFavorite(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.repo.RemoveFavorite(middleware.UserID(c), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove favourite"})
	}
	return c.JSON(fiber.Map{"message": "Removed from favourites"})
}

func (h *SongHandler) Favorites(c *fiber.Ctx) error {
	favs, err := h.repo.ListFavorites(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load favourites"})
	}
	for i := range favs {
		h.withURLs(&favs[i].Song)
	}
	return c.JSON(fiber.Map{"data": favs})
}

func (h *SongHandler) History(c *fiber.Ctx) error {
	history, err := h.repo.ListHistory(middleware.UserID(c), c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load history"})
	}
	for i := range history {
		h.withURLs(&history[i].Song)
	}
	return c.JSON(fiber.Map{"data": history})
}

// Admin

func (h *SongHandler) AdminList(c *fiber.Ctx) error {
	songs, total, err := h.repo.List(repository.SongFilter{
		Search: c.Query("search"),
		Genre:  c.Query("genre"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load songs"})
	}
	for i := range songs {
		h.withURLs(&songs[i])
	}
	return c.JSON(fiber.Map{"data": songs, "total": total})
}

// Create takes multipart form fields plus an "audio" file (required) and a
// "cover" image (optional).
func (h *SongHandler) Create(c *fiber.Ctx) error {
	var req songRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	audio, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Audio file is required"})
	}

	song := model.Song{
		Title:        req.Title,
		Artist:       req.Artist,
		Album:        req.Album,
		Genre:        req.Genre,
		Scripture:    req.Scripture,
		Lyrics:       req.Lyrics,
		DurationSec:  req.DurationSec,
		UploadedByID: middleware.UserID(c),
	}

	if song.AudioKey, err = uploadFile(c, h.store, h.log, "songs", audio); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload audio"})
	}
	if cover, err := c.FormFile("cover"); err == nil {
		if song.CoverKey, err = uploadFile(c, h.store, h.log, "covers", cover); err != nil {
			discardUploads(c, h.store, h.log, song.AudioKey)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload cover"})
		}
	}

	if err := h.repo.Create(&song); err != nil {
		discardUploads(c, h.store, h.log, song.AudioKey, song.CoverKey)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create song"})
	}
	h.withURLs(&song)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Song created", "data": song})
}

func (h *SongHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	song, err := h.repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Song not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load song"})
	}

	var req songRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}
	song.Title = req.Title
	song.Artist = req.Artist
	song.Album = req.Album
	song.Genre = req.Genre
	song.Scripture = req.Scripture
	song.Lyrics = req.Lyrics
	song.DurationSec = req.DurationSec

	if err := h.repo.Update(song); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update song"})
	}
	h.withURLs(song)
	return c.JSON(fiber.Map{"message": "Song updated", "data": song})
}

func (h *SongHandler) TogglePublish(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	song, err := h.repo.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Song not found"})
	}

	song.IsPublished = !song.IsPublished
	if err := h.repo.Update(song); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update song"})
	}

	status := "unpublished"
	if song.IsPublished {
		status = "published"
	}
	return c.JSON(fiber.Map{"message": "Song " + status, "data": song})
}

// Delete soft-deletes the row; stored objects are kept.
func (h *SongHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.repo.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete song"})
	}
	return c.JSON(fiber.Map{"message": "Song " + strconv.FormatUint(uint64(id), 10) + " deleted"})
}
