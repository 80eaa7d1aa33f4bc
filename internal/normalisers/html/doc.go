// Package html converts raw help-center HTML bodies into clean
// markdown-flavoured text. Navigation, scripts and styling are stripped;
// links, headings, lists and code blocks are preserved so citations and
// examples survive indexing. The content hash is computed over the
// normalised text, so markup churn alone never registers as a change.
package html
