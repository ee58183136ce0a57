package cardsvc

import (
	"bytes"
	"fmt"
	"image/png"
	"strconv"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/go-pdf/fpdf"

	"github.com/SilaSerdar/library-systeem/model"
)

// Card dimensions follow the ID-1 format (standard credit-card size).
const (
	cardWidth  = 85.6
	cardHeight = 54.0
)

type Service interface {
	// Render produces a printable PDF library card for the member:
	// name, email, member id and a Code 128 barcode of the id.
	Render(u *model.User) ([]byte, error)
}

type service struct{}

func New() Service { return &service{} }

func (s *service) Render(u *model.User) ([]byte, error) {
	memberID := strconv.FormatInt(u.ID, 10)

	bc, err := code128.Encode(memberID)
	if err != nil {
		return nil, fmt.Errorf("encode barcode: %w", err)
	}
	scaled, err := barcode.Scale(bc, 300, 60)
	if err != nil {
		return nil, fmt.Errorf("scale barcode: %w", err)
	}
	var img bytes.Buffer
	if err := png.Encode(&img, scaled); err != nil {
		return nil, fmt.Errorf("encode barcode png: %w", err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: cardWidth, Ht: cardHeight},
	})
	pdf.SetMargins(5, 5, 5)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "LIBRARY CARD", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, u.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(0, 4, u.Email, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 4, "Member #"+memberID, "", 1, "L", false, 0, "")

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("member-barcode", opts, &img)
	pdf.ImageOptions("member-barcode", 12.8, 32, 60, 12, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("render card pdf: %w", err)
	}
	return out.Bytes(), nil
}
