package pdf

import "html/template"

// certificateTemplate is the printable certificate markup, A4-ish sheet
// with the company letterhead toggled by IncludeHeader (pre-printed
// stationery is used when it is off).
var certificateTemplate = template.Must(template.New("certificate").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(certificateTemplateHTML))

const certificateTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Heat Treatment Certificate</title>
  <style>
    body { font-family: Georgia, 'Times New Roman', serif; color: #111; margin: 0; padding: 24px 36px; }
    .header { text-align: center; border-bottom: 3px double #14532d; padding-bottom: 12px; margin-bottom: 16px; }
    .header h1 { margin: 0; font-size: 26px; color: #14532d; letter-spacing: 1px; }
    .header p { margin: 2px 0; font-size: 12px; color: #374151; }
    .title { text-align: center; font-size: 20px; font-weight: bold; text-decoration: underline; margin: 18px 0 6px 0; }
    .subtitle { text-align: center; font-size: 12px; margin-bottom: 18px; }
    .meta { width: 100%; font-size: 13px; margin-bottom: 14px; }
    .meta td { padding: 3px 0; vertical-align: top; }
    .meta .label { font-weight: bold; width: 180px; }
    table.items { width: 100%; border-collapse: collapse; font-size: 13px; margin: 10px 0 16px 0; }
    table.items th, table.items td { border: 1px solid #111; padding: 5px 8px; text-align: left; }
    table.items th { background: #f3f4f6; }
    .figures { width: 100%; font-size: 13px; }
    .figures td { padding: 3px 0; }
    .note { font-size: 12px; margin-top: 10px; font-style: italic; }
    .sign { margin-top: 48px; text-align: right; font-size: 13px; }
    .sign .line { display: inline-block; border-top: 1px solid #111; padding-top: 4px; min-width: 220px; text-align: center; }
  </style>
</head>
<body>
  {{if .IncludeHeader}}
  <div class="header">
    <h1>SHREE JALARAM WOOD INDUSTRIES</h1>
    <p>Manufacturers of ISPM-15 Compliant Heat Treated Wooden Pallets &amp; Packaging</p>
    <p>Certificate of Heat Treatment as per ISPM-15 Guidelines</p>
  </div>
  {{end}}

  <div class="title">HEAT TREATMENT CERTIFICATE</div>
  <div class="subtitle">Financial Year {{.Year}}</div>

  <table class="meta">
    <tr>
      <td class="label">Certificate No.</td><td>{{.CertificateNo}}</td>
      <td class="label">Certificate Date</td><td>{{.CertificateDate}}</td>
    </tr>
    <tr>
      <td class="label">Customer</td><td>{{.CustomerName}}</td>
      <td class="label">Date of Treatment</td><td>{{.DateOfTreatment}}</td>
    </tr>
    <tr>
      <td class="label">Address</td><td colspan="3">{{.CustomerAddress}}</td>
    </tr>
    <tr>
      <td class="label">Batch No.</td><td>{{.BatchNumber}}</td>
      <td class="label">SO No.</td><td>{{.SoNumber}}</td>
    </tr>
    <tr>
      <td class="label">Truck No.</td><td>{{.TruckNo}}</td>
      <td class="label">Container No.</td><td>{{.ContainerNumber}}</td>
    </tr>
    <tr>
      <td class="label">Country of Destination</td><td>{{.Country}}</td>
      <td class="label">Qty Treated</td><td>{{.QtyTreated}}</td>
    </tr>
  </table>

  <table class="items">
    <thead>
      <tr><th>Sr.</th><th>Item Code</th><th>Material</th><th>Size</th></tr>
    </thead>
    <tbody>
      {{range $i, $item := .Items}}
      <tr><td>{{inc $i}}</td><td>{{$item.Code}}</td><td>{{$item.Material}}</td><td>{{$item.Size}}</td></tr>
      {{end}}
    </tbody>
  </table>

  <table class="figures">
    <tr><td>Core temperature of 56&deg;C attained in</td><td><b>{{.AttainingTimeMins}} minutes</b></td></tr>
    <tr><td>Total treatment time (56&deg;C held for at least 30 minutes)</td><td><b>{{.TotalTreatmentTimeMins}} minutes</b></td></tr>
    <tr><td>Moisture content before treatment</td><td><b>{{.MoistureBeforeTreatment}}%</b></td></tr>
    <tr><td>Moisture content after treatment</td><td><b>{{.MoistureAfterTreatment}}%</b></td></tr>
  </table>

  {{if .Note}}<p class="note">Note: {{.Note}}</p>{{end}}

  <div class="sign">
    <span class="line">Authorised Signatory</span>
  </div>
</body>
</html>
`
