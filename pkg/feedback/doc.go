/*
Package feedback implements the feedback-request pipeline.

A feedback request re-runs the cell's current source to get fresh output,
builds a two-message exchange (fixed system instruction plus a user message
carrying the output, the source and a fixed rubric) and submits it to one of
two interchangeable backends: a remote model-listing chat API or a fixed
local endpoint. The reply renders into the cell's feedback region; every
failure path leaves that region cleared and surfaces a notification instead.
*/
package feedback
