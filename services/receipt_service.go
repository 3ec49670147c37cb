package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/avinash2305/wellness_platform/configs"
	"github.com/avinash2305/wellness_platform/database"
	"github.com/avinash2305/wellness_platform/models"
	"github.com/avinash2305/wellness_platform/notifications"
	"github.com/avinash2305/wellness_platform/utils"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// GenerateDonationReceipt renders a PDF receipt for a completed donation,
// uploads it and stores the URL on the record. Runs in a goroutine after
// payment settlement; failures are logged and the donation stays completed
// without a receipt so an admin can re-trigger it.
func GenerateDonationReceipt(donationID uuid.UUID) {
	var donation models.Donation
	if err := database.DB.First(&donation, "id = ?", donationID).Error; err != nil {
		log.Printf("🔥 Receipt generation: donation %s not found: %v", donationID, err)
		return
	}
	if donation.Status != models.DonationStatusCompleted {
		return
	}
	if donation.ReceiptURL != nil {
		return
	}

	receiptNumber := donation.ReceiptNumber
	if receiptNumber == nil {
		number := utils.GenerateReceiptNumber()
		receiptNumber = &number
	}

	htmlData, err := generateReceiptHTML(donation, *receiptNumber)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF: %v", err)
		return
	}

	uploadURL, err := uploadReceiptPDF(pdfBytes, donation.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload receipt: %v", err)
		return
	}

	donation.ReceiptNumber = receiptNumber
	donation.ReceiptURL = &uploadURL
	if err := database.DB.Save(&donation).Error; err != nil {
		log.Printf("🔥 Failed to save receipt URL for donation %s: %v", donation.ID, err)
		return
	}

	go notifications.SendEmail(
		donation.DonorName,
		donation.DonorEmail,
		"Thank You for Your Donation",
		fmt.Sprintf("<h1>Thank You!</h1><p>Your donation of %s %.2f has been received. Your receipt is attached below.</p><p><a href='%s'>Download Receipt</a></p>", donation.Currency, donation.Amount, uploadURL),
	)

	log.Printf("✅ Generated receipt %s for donation %s.", *receiptNumber, donation.ID)
}

func generateReceiptHTML(donation models.Donation, receiptNumber string) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := struct {
		ReceiptNumber string
		DonorName     string
		Amount        string
		Date          string
	}{
		ReceiptNumber: receiptNumber,
		DonorName:     donation.DonorName,
		Amount:        fmt.Sprintf("%s %.2f", donation.Currency, donation.Amount),
		Date:          time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceiptPDF(fileBytes []byte, donationID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", donationID, uuid.New().String()),
		Folder:       "wellness_donation_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
