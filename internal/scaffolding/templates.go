package scaffolding

// Scaffold file templates. These are text/template sources with [[ ]]
// delimiters so the {{ }} Handlebars expressions survive into the generated
// files untouched.

const indexTemplate = `<mjml>
  <mj-head>
    <mj-title>[[.DisplayName]]</mj-title>
    <mj-attributes>
      <mj-all font-family="Helvetica, Arial, sans-serif" />
      <mj-text font-size="14px" color="#3c4043" line-height="22px" />
    </mj-attributes>
    <mj-style>
      .footer-link {
        color: {{theme.brandColor}};
        text-decoration: none;
      }
    </mj-style>
  </mj-head>
  <mj-body background-color="#f4f4f4">
    {{include "partials/header"}}
    <mj-section background-color="#ffffff" padding="24px">
      <mj-column>
        <mj-text font-size="20px" font-weight="bold">Hello {{name}},</mj-text>
        <mj-text>Welcome to [[.DisplayName]]. This starter template shows
          interpolation, conditionals, and partials.</mj-text>
        {{#ifEquals plan "pro"}}
        <mj-text>Thanks for going pro. Your workspace is ready.</mj-text>
        {{else}}
        <mj-text>You are on the free plan. Upgrade whenever you like.</mj-text>
        {{/ifEquals}}
        <mj-button background-color="{{theme.brandColor}}" href="{{ctaUrl}}">Get started</mj-button>
      </mj-column>
    </mj-section>
    <mj-section padding="16px 0">
      <mj-column>
        <mj-text align="center" font-size="12px" color="#8a8f98">
          Sent by {{theme.companyName}} &#8226; <a class="footer-link" href="{{ctaUrl}}">Preferences</a>
        </mj-text>
      </mj-column>
    </mj-section>
  </mj-body>
</mjml>
`

const headerPartialTemplate = `<mj-section background-color="{{theme.brandColor}}" padding="16px 0">
  <mj-column>
    <mj-text align="center" color="#ffffff" font-size="24px" font-weight="bold">[[.DisplayName]]</mj-text>
  </mj-column>
</mj-section>
`

const themeTemplate = `{
  "brandColor": "#346df1",
  "companyName": "[[.DisplayName]]"
}
`

const sampleTemplate = `{
  "name": "Ada",
  "plan": "pro",
  "ctaUrl": "https://example.com/start"
}
`

const configHeader = `# mailtempl configuration
# Values can be overridden with MAILTEMPL_* environment variables.
`
