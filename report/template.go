package report

const reportTemplate = `<html>
<head>
    <meta charset="utf-8">
    <title>Platform Test Report</title>
    <style>
        body { font-family: sans-serif; margin: 20px; }
        .pass { color: green; }
        .fail { color: red; }
        .summary { background: #f0f0f0; padding: 10px; border-radius: 5px; }
        table { border-collapse: collapse; width: 100%; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #4CAF50; color: white; }
    </style>
</head>
<body>
    <h1>Platform Test Report</h1>
    <div class="summary">
        <h3>Summary</h3>
        <p>Date: {{.Date}}</p>
        <p>Total Tests: {{.Total}}</p>
        <p>Failures: {{.Failures}}</p>
        <p>Time: {{.Time}}s</p>
    </div>
{{- with .System}}

    <h3>System</h3>
    <div class="summary">
        <p>Host: {{.Hostname}}</p>
        <p>Platform: {{.Platform}} {{.PlatformVersion}}</p>
        <p>Kernel: {{.KernelVersion}} ({{.KernelArch}})</p>
    </div>
{{- if .PCIDevices}}
    <table>
        <tr><th>Address</th><th>Class</th><th>Vendor</th><th>Product</th></tr>
{{- range .PCIDevices}}
        <tr><td>{{.Address}}</td><td>{{.Class}}</td><td>{{.Vendor}}</td><td>{{.Product}}</td></tr>
{{- end}}
    </table>
{{- end}}
{{- end}}

    <h3>Test Details</h3>
    <table>
        <tr><th>Class</th><th>Test</th><th>Status</th><th>Message</th></tr>
{{- range .Rows}}
        <tr>
            <td>{{.ClassName}}</td>
            <td>{{.Name}}</td>
            <td class="{{.StatusClass}}">{{.Status}}</td>
            <td><pre>{{.Message}}</pre></td>
        </tr>
{{- end}}
    </table>

    <h3>System Logs (Tail)</h3>
    <pre>{{.Logs}}</pre>
</body>
</html>
`
