package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
)

// StartsAtLayout is the date-time format of the starts_at form field.
const StartsAtLayout = "2006-01-02T15:04"

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 1 << 20

// parseForm reads a urlencoded or multipart body, bounded by maxUploadBytes.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.Invalid("form", "upload is too large")
		}
		return model.Invalid("form", "could not be read")
	}
	return nil
}

// eventFields collects the submitted event fields. Fields absent from the
// form stay nil so an update leaves them untouched. Empty starts_at, price
// and stock count as absent.
func eventFields(r *http.Request) (model.EventFields, error) {
	var f model.EventFields
	form := r.PostForm

	text := map[string]**string{
		"name":        &f.Name,
		"description": &f.Description,
		"location":    &f.Location,
	}
	for key, dst := range text {
		if form.Has(key) {
			v := form.Get(key)
			*dst = &v
		}
	}

	if v := strings.TrimSpace(form.Get("starts_at")); v != "" {
		t, err := time.Parse(StartsAtLayout, v)
		if err != nil {
			return f, model.Invalid("starts_at", "must look like "+StartsAtLayout)
		}
		f.StartsAt = &t
	}
	if v := strings.TrimSpace(form.Get("price")); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, model.Invalid("price", "must be a number")
		}
		f.Price = &p
	}
	if v := strings.TrimSpace(form.Get("stock")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, model.Invalid("stock", "must be a whole number")
		}
		f.Stock = &n
	}
	return f, nil
}

// imageUpload returns the uploaded image, or nil when no file was chosen.
// The returned func releases the file and any temporary form storage.
func imageUpload(r *http.Request) (*model.ImageUpload, func(), error) {
	release := func() {
		if r.MultipartForm != nil {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				log.Printf("remove multipart temp files: %v", err)
			}
		}
	}
	if r.MultipartForm == nil {
		return nil, release, nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, release, nil
	}
	if err != nil {
		return nil, release, fmt.Errorf("read upload: %w", err)
	}
	if header.Filename == "" {
		file.Close()
		return nil, release, nil
	}
	return &model.ImageUpload{Filename: header.Filename, Body: file}, func() {
		file.Close()
		release()
	}, nil
}

// checkbox reports whether an HTML checkbox value means "checked".
func checkbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
