package composer

// documentTemplate renders one quotation as a self-contained A4 document.
// The wrapper is a flex column at least one page tall. The footer stays in
// normal flow and margin-top:auto pushes it to the bottom of the column, so
// long notes grow the wrapper instead of overlapping the item table.
const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Quotation {{.Number}}</title>
<style>
html, body {
    margin: 0;
    padding: 0;
}

body {
    font-family: Arial, sans-serif;
    font-size: 13px;
    color: #222;
    background: #fff;
}

.pdf-wrapper {
    width: {{.Layout.PageWidthMM}}mm;
    min-height: {{.Layout.PageHeightMM}}mm;
    padding: {{.Layout.TopMarginMM}}mm {{.Layout.SideMarginMM}}mm {{.Layout.BottomMarginMM}}mm {{.Layout.SideMarginMM}}mm;
    box-sizing: border-box;
    display: flex;
    flex-direction: column;
}

.header-top {
    display: flex;
    justify-content: space-between;
    width: 100%;
    border-bottom: 2px solid #000;
    padding-bottom: 10px;
    margin-bottom: 15px;
}

.company-name {
    font-size: 20px;
    font-weight: bold;
}

.company-details {
    font-size: 11px;
    margin-top: 5px;
}

.quotation-title {
    font-size: 22px;
    font-weight: bold;
    text-align: right;
}

.header-info {
    text-align: right;
    font-size: 12px;
}

.section {
    margin-top: 10px;
}

.section strong {
    font-size: 13px;
}

.table {
    width: 100%;
    border-collapse: collapse;
    margin-top: 15px;
}

.table th {
    background: #f2f2f2;
    padding: 8px;
    font-size: 12px;
    border: 1px solid #ccc;
    text-align: center;
}

.table td {
    padding: 8px;
    border: 1px solid #ccc;
    font-size: 12px;
}

.table tr {
    page-break-inside: avoid;
}

.center {
    text-align: center;
}

.right {
    text-align: right;
}

.picture {
    display: block;
    width: 40px;
    height: 40px;
    object-fit: cover;
    border-radius: 4px;
    margin: auto;
}

.picture-box {
    width: 40px;
    height: 40px;
    background: #d9d9d9;
    border-radius: 50%;
    margin: auto;
}

.total-wrapper {
    margin-top: 15px;
    margin-bottom: 20px;
    text-align: right;
    font-size: 15px;
    font-weight: bold;
}

.footer {
    margin-top: auto;
    padding-top: {{.Layout.FooterGapMM}}mm;
    page-break-inside: avoid;
    display: flex;
    justify-content: space-between;
    font-size: 11px;
}

.notes {
    width: 60%;
}

.signature {
    width: 40%;
    text-align: right;
    font-size: 11px;
}
</style>
</head>
<body>
<div class="pdf-wrapper">
    <div class="header-top">
        <div>
            <div class="company-name">{{.Company.Name}}</div>
            <div class="company-details">
                <span class="company-address">{{.Company.Address}}</span><br>
                <span class="company-contact">{{.Company.Contact}}</span><br>
                <span class="company-email">{{.Company.Email}}</span>
            </div>
        </div>
        <div>
            <div class="quotation-title">Quotation</div>
            <div class="header-info">
                Date: <span class="quotation-date">{{.Date}}</span><br>
                Quotation #: <span class="quotation-number">{{.Number}}</span>
            </div>
        </div>
    </div>

    <div class="section recipient">
        <strong>To:</strong> <span class="recipient-name">{{.Recipient}}</span><br>
        <strong>Subject:</strong> <span class="subject">{{.Subject}}</span>
    </div>

    <div class="section intro">{{.Intro}}</div>

    <table class="table items">
        <thead>
            <tr>
                <th>Item</th>
                <th>Description</th>
                <th>Units</th>
                <th>Unit Price LKR</th>
                <th>Qty</th>
                <th>Total Price LKR</th>
                <th>Picture</th>
            </tr>
        </thead>
        <tbody>
        {{- range .Rows}}
            <tr class="item-row">
                <td class="center seq">{{.Sequence}}</td>
                <td class="name">{{.Name}}</td>
                <td class="center unit">{{.Unit}}</td>
                <td class="right unit-price">{{.UnitPrice}}</td>
                <td class="center qty">{{.Quantity}}</td>
                <td class="right line-total">{{.LineTotal}}</td>
                <td class="picture-cell">{{if .Picture}}<img class="picture" src="{{.Picture}}" alt="">{{else}}<div class="picture-box"></div>{{end}}</td>
            </tr>
        {{- end}}
        </tbody>
    </table>

    <div class="total-wrapper">
        Grand Total LKR: <span class="grand-total">{{.GrandTotal}}</span>
    </div>

    <div class="footer">
        <div class="notes">
            <strong>Additional Notes:</strong><br>
            {{- range .Notes}}
            {{.}}<br>
            {{- end}}
            {{- range .Terms}}
            {{.}}<br>
            {{- end}}
            {{- if .TaxLine}}
            <span class="tax-line">&bull; {{.TaxLine}}</span><br>
            {{- end}}
            {{- if .DiscountLine}}
            <span class="discount-line">&bull; {{.DiscountLine}}</span><br>
            {{- end}}
            <br>
            Thank you.
        </div>
        <div class="signature">
            Yours faithfully,<br><br><br>
            <strong class="signatory-name">{{.SignatoryName}}</strong><br>
            <span class="signatory-phone">{{.SignatoryPhone}}</span>
        </div>
    </div>
</div>
</body>
</html>
`
