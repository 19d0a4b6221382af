// Package help carries the machine-readable quick-start text printed by the
// quickstart command.
package help

const QuickstartYAML = `# municrawl Quick Start

modes:
  scrape: "Seed page only (default, one backend call per source)"
  crawl: "Seed plus discovered pages, capped by --max-pages"

pipeline:
  crawl_all: |
    export FIRECRAWL_API_KEY=fc-...
    municrawl crawl

  crawl_one_source: |
    municrawl crawl --source mairie_arretes --mode crawl --max-pages 200

  preview: |
    municrawl crawl --dry-run

  extract_pdf_links: |
    municrawl extract --source mairie_arretes

  download_pdfs: |
    municrawl download --source mairie_arretes --delay 250ms

  review_history: |
    municrawl runs --limit 10

key_files:
  - "ext_data/<source>/<slug>.md (page content)"
  - "ext_data/<source>/<slug>.html (raw HTML)"
  - "ext_data/<source>/<slug>_metadata.json (title, language, fetch time)"
  - "ext_data/<source>/index_<timestamp>.md (per-run page index)"
  - "ext_data/<source>/errors.log (one line per failed page)"
  - "ext_data/<source>/extracted_pdf_metadata.json (download manifest)"
  - "ext_data/<source>/pdfs/ (downloaded documents)"
  - "ext_data/municrawl.db (run history)"

source_selection:
  - "--source all processes every configured source in order (default)"
  - "--source <name> processes exactly one"
  - "--config sources.yaml replaces the built-in registry"

error_behavior:
  - "Unknown source or bad registry file: fail fast, nothing touched, exit 2"
  - "Missing API key: exit 2 (dry runs need no key)"
  - "Rejected API key: run aborts, exit 2"
  - "Failed page: logged to errors.log, run continues"
  - "Exit 0 when any source captured content; 1 when failures and no successes"
`
