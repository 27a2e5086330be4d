package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yaklabco/hl7lint/pkg/treefmt"
)

// mimeCBOR is the content type of CBOR parse trees.
const mimeCBOR = "application/cbor"

// ParseAPI serves parse trees.
type ParseAPI struct {
	Router  fiber.Router
	Service *Service
}

// Register adds POST /parse.
//
// Query parameters: path selects nodes by HL7 path, depth limits descent,
// delimiters includes delimiter leaves and format=cbor returns the bare
// tree as CBOR instead of the JSON envelope.
func (api *ParseAPI) Register() {
	api.Router.Post("/parse", func(c *fiber.Ctx) error {
		format := treefmt.FormatJSON
		if c.Query("format") != "" {
			f, err := treefmt.ParseFormat(c.Query("format"))
			if err != nil || (f != treefmt.FormatJSON && f != treefmt.FormatCBOR) {
				return applyErrorToResponse(c, "",
					newStatusError(fiber.StatusBadRequest, "format must be json or cbor", nil))
			}

			format = f
		}

		doc, err := api.Service.Parse(c.UserContext(), ParseRequest{
			Name:       c.Query("name"),
			Content:    c.Body(),
			Select:     c.Query("path"),
			MaxDepth:   c.QueryInt("depth"),
			Delimiters: c.QueryBool("delimiters"),
		})
		if err != nil {
			return applyErrorToResponse(c, "Unexpected error", err)
		}

		if format == treefmt.FormatCBOR {
			data, err := treefmt.MarshalCBOR(doc)
			if err != nil {
				return applyErrorToResponse(c, "Unexpected error", err)
			}

			c.Set(fiber.HeaderContentType, mimeCBOR)

			return c.Status(fiber.StatusOK).Send(data)
		}

		return applySuccessToResponse(c, doc)
	})
}

// LintAPI serves lint results.
type LintAPI struct {
	Router  fiber.Router
	Service *Service
}

// Register adds POST /lint. With fix=true the fixed message is returned
// as well; nothing is stored.
func (api *LintAPI) Register() {
	api.Router.Post("/lint", func(c *fiber.Ctx) error {
		resp, err := api.Service.Lint(c.UserContext(), LintRequest{
			Name:    c.Query("name"),
			Content: c.Body(),
			Fix:     c.QueryBool("fix"),
		})
		if err != nil {
			return applyErrorToResponse(c, "Unexpected error", err)
		}

		return applySuccessToResponse(c, resp)
	})
}

// MetaAPI serves the rule catalog and a health probe.
type MetaAPI struct {
	Router  fiber.Router
	Service *Service
	Version string
}

// Register adds GET /rules and GET /healthz.
func (api *MetaAPI) Register() {
	api.Router.Get("/rules", func(c *fiber.Ctx) error {
		return applySuccessToResponse(c, api.Service.Rules())
	})

	api.Router.Get("/healthz", func(c *fiber.Ctx) error {
		return applySuccessToResponse(c, fiber.Map{"status": "ok", "version": api.Version})
	})
}
