package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bizzai/go-session/dashboard"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	feedbackInput dashboard.Feedback
	trainingInput dashboard.TrainingRequest
	setupInput    dashboard.BusinessSetup

	planName     string
	currencyCode string
	messageTier  int

	verification dashboard.PaymentVerification
	settingsFile string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Send feedback as the signed in user",
	Run: run(protected(func(ctx context.Context, d *deps, w io.Writer) int {
		return runFeedback(ctx, d, w, feedbackInput)
	})),
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the assistant from a Google Sheets knowledge base",
	Run: run(protected(func(ctx context.Context, d *deps, w io.Writer) int {
		return runTrain(ctx, d, w, trainingInput)
	})),
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the WhatsApp assistant of the business",
	Run: run(protected(func(ctx context.Context, d *deps, w io.Writer) int {
		return runSetup(ctx, d, w, setupInput)
	})),
}

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Show the price of a plan",
	Run: run(protected(func(ctx context.Context, d *deps, w io.Writer) int {
		return runPricing(ctx, d, w, planName, currencyCode, messageTier)
	})),
}

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Create and verify plan payments",
}

var payCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a checkout order for a plan",
	Run: run(protected(func(ctx context.Context, d *deps, w io.Writer) int {
		return runPayCreate(ctx, d, w, planName, currencyCode, messageTier)
	})),
}

var payVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a completed checkout",
	Run: run(protected(func(ctx context.Context, d *deps, w io.Writer) int {
		return runPayVerify(ctx, d, w, verification)
	})),
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Work with dashboard settings",
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a settings document",
	Run: run(protected(func(ctx context.Context, d *deps, w io.Writer) int {
		return runSettingsValidate(ctx, d, w, settingsFile)
	})),
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackInput.Category, "category", "general", "general, bug, feature or improvement")
	feedbackCmd.Flags().IntVar(&feedbackInput.Rating, "rating", 0, "Rating from 1 to 5")
	feedbackCmd.Flags().StringVar(&feedbackInput.Text, "text", "", "Feedback text")

	trainCmd.Flags().StringVar(&trainingInput.BusinessCategory, "category", "", "cafe, clinic, retail or education")
	trainCmd.Flags().StringVar(&trainingInput.DocURL, "sheet", "", "Google Sheets URL (defaults to the category template)")

	f := setupCmd.Flags()
	f.StringVar(&setupInput.BusinessName, "business-name", "", "Business name")
	f.StringVar(&setupInput.PhoneNumber, "phone", "", "WhatsApp phone number")
	f.StringVar(&setupInput.APIKey, "api-key", "", "WhatsApp API key")
	f.StringVar(&setupInput.Email, "email", "", "Contact email")
	f.StringVar(&setupInput.WebsiteURL, "website", "", "Business website")
	f.StringVar(&setupInput.Timezone, "timezone", "", "Timezone")
	f.StringVar(&setupInput.ChatbotName, "chatbot-name", "", "Assistant name")
	f.StringVar(&setupInput.WelcomeMessage, "welcome", "", "Welcome message")
	f.StringVar(&setupInput.FallbackMessage, "fallback", "", "Fallback message")
	f.StringVar(&setupInput.ChatbotTone, "tone", "", "friendly or professional")
	f.StringVar(&setupInput.Language, "language", "", "en, hi or pa")

	for _, c := range []*cobra.Command{pricingCmd, payCreateCmd} {
		c.Flags().StringVar(&planName, "plan", "", "Starter, Growth or Professional")
		c.Flags().StringVar(&currencyCode, "currency", "INR", "INR, USD, EUR or GBP")
		c.Flags().IntVar(&messageTier, "messages", 0, "Monthly messages for customizable plans")
	}

	payVerifyCmd.Flags().StringVar(&verification.PaymentID, "payment-id", "", "Payment id")
	payVerifyCmd.Flags().StringVar(&verification.OrderID, "order-id", "", "Order id")
	payVerifyCmd.Flags().StringVar(&verification.Signature, "signature", "", "Payment signature")

	settingsValidateCmd.Flags().StringVar(&settingsFile, "file", "", "JSON settings document (defaults are checked when empty)")

	payCmd.AddCommand(payCreateCmd, payVerifyCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(feedbackCmd, trainCmd, setupCmd, pricingCmd, payCmd, settingsCmd)
}

func runFeedback(ctx context.Context, d *deps, w io.Writer, fb dashboard.Feedback) int {
	if err := d.prompter.Ask(missing(
		field{Title: "Feedback", Value: &fb.Text, Validate: required},
	)...); err != nil {
		return reportError(w, err)
	}

	id, err := d.dashboard.SubmitFeedback(ctx, fb)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]string{"id": id})
		return exitOK
	}
	fmt.Fprintln(w, okStyle.Render("Thank you for your feedback!"))
	fmt.Fprintln(w, row("Reference", id))
	return exitOK
}

func runTrain(ctx context.Context, d *deps, w io.Writer, req dashboard.TrainingRequest) int {
	categories := make([]string, 0, len(dashboard.BusinessCategories))
	for _, c := range dashboard.BusinessCategories {
		categories = append(categories, fmt.Sprint(c))
	}
	if err := d.prompter.Ask(missing(
		field{Title: "Business category", Value: &req.BusinessCategory, Options: categories},
	)...); err != nil {
		return reportError(w, err)
	}

	record, err := d.dashboard.SubmitTraining(ctx, req)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, record)
		return exitOK
	}
	fmt.Fprintln(w, okStyle.Render("Training started"))
	fmt.Fprintln(w, row("Record", record.ID))
	fmt.Fprintln(w, row("Business", record.BusinessID))
	fmt.Fprintln(w, row("Category", record.BusinessCategory))
	fmt.Fprintln(w, row("Sheets", strings.Join(record.GoogleDocURLs, ", ")))
	return exitOK
}

func runSetup(ctx context.Context, d *deps, w io.Writer, in dashboard.BusinessSetup) int {
	if err := d.prompter.Ask(missing(
		field{Title: "Business name", Value: &in.BusinessName, Validate: required},
		field{Title: "WhatsApp phone number", Value: &in.PhoneNumber, Validate: required},
		field{Title: "WhatsApp API key", Value: &in.APIKey, Secret: true, Validate: required},
		field{Title: "Contact email", Value: &in.Email, Validate: required},
		field{Title: "Timezone", Value: &in.Timezone, Validate: required},
		field{Title: "Assistant name", Value: &in.ChatbotName, Validate: required},
	)...); err != nil {
		return reportError(w, err)
	}

	result, err := d.dashboard.SetupBusiness(ctx, in)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]string{"message": result.Message})
		return exitOK
	}
	fmt.Fprintln(w, okStyle.Render("Setup complete"))
	if result.Message != "" {
		fmt.Fprintln(w, result.Message)
	}
	return exitOK
}

func runPricing(_ context.Context, _ *deps, w io.Writer, plan, currency string, messages int) int {
	if plan == "" {
		return printPlans(w, currency)
	}

	quote, err := dashboard.PriceQuote(plan, currency, messages)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, quote)
		return exitOK
	}
	fmt.Fprintln(w, formatQuote(quote))
	return exitOK
}

func printPlans(w io.Writer, currency string) int {
	quotes := make([]dashboard.Quote, 0, len(dashboard.Plans))
	for _, p := range dashboard.Plans {
		q, err := dashboard.PriceQuote(p.Name, currency, 0)
		if err != nil {
			return reportError(w, err)
		}
		quotes = append(quotes, q)
	}

	if IsJSONOutput() {
		writeJSON(w, quotes)
		return exitOK
	}
	fmt.Fprintln(w, titleStyle.Render("Plans"))
	for _, q := range quotes {
		fmt.Fprintln(w, formatQuote(q))
	}
	return exitOK
}

func formatQuote(q dashboard.Quote) string {
	return row(q.Plan, fmt.Sprintf("%s%s / month, %s messages",
		q.Currency.Symbol, strconv.FormatInt(q.Price, 10), strconv.Itoa(q.Messages)))
}

func runPayCreate(ctx context.Context, d *deps, w io.Writer, plan, currency string, messages int) int {
	if plan == "" {
		return reportError(w, fmt.Errorf("--plan is required"))
	}

	quote, err := dashboard.PriceQuote(plan, currency, messages)
	if err != nil {
		return reportError(w, err)
	}

	order, err := d.dashboard.CreatePaymentOrder(ctx, dashboard.PaymentOrderRequest{
		Tier:     quote.Plan,
		Amount:   quote.Price,
		Currency: quote.Currency.Code,
	})
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, order)
		return exitOK
	}
	fmt.Fprintln(w, okStyle.Render("Order created"))
	fmt.Fprintln(w, row("Order", order.OrderID))
	fmt.Fprintln(w, row("Receipt", order.Receipt))
	fmt.Fprintln(w, row("Amount", fmt.Sprintf("%s%d", quote.Currency.Symbol, quote.Price)))
	return exitOK
}

func runPayVerify(ctx context.Context, d *deps, w io.Writer, v dashboard.PaymentVerification) int {
	if err := d.dashboard.VerifyPayment(ctx, v); err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]any{"verified": true, "orderId": v.OrderID})
		return exitOK
	}
	fmt.Fprintln(w, okStyle.Render("Payment successful"))
	return exitOK
}

// settingsDocument is the file format accepted by "settings validate".
type settingsDocument struct {
	General dashboard.GeneralSettings `json:"general"`
	Chat    dashboard.ChatSettings    `json:"chat"`
}

func runSettingsValidate(_ context.Context, _ *deps, w io.Writer, path string) int {
	doc := settingsDocument{
		General: dashboard.DefaultGeneralSettings(),
		Chat:    dashboard.DefaultChatSettings(),
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return reportError(w, err)
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return reportError(w, err)
		}
	}

	problems := map[string]string{}
	for name, msg := range dashboard.FieldErrors(doc.General.Validate()) {
		problems["general."+name] = msg
	}
	for name, msg := range dashboard.FieldErrors(doc.Chat.Validate()) {
		problems["chat."+name] = msg
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]any{"valid": len(problems) == 0, "errors": problems})
	} else {
		fmt.Fprintln(w, formatProblems(problems))
	}
	if len(problems) > 0 {
		return exitUsage
	}
	return exitOK
}

func formatProblems(problems map[string]string) string {
	if len(problems) == 0 {
		return okStyle.Render("Settings are valid")
	}
	fields := make([]string, 0, len(problems))
	for f := range problems {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	lines := []string{errorStyle.Render("Please fix the errors before saving")}
	for _, f := range fields {
		lines = append(lines, row(f, problems[f]))
	}
	return strings.Join(lines, "\n")
}
