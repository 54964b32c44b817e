package interp

// HelpText is the statement summary hosts print for HELP.
const HelpText = `Statements (abbreviations in parentheses):
  PRINT items        (PR, ?)   print expressions and "strings"; , = tab ; = join
  LET V = expr                 assign; LET is optional
  INPUT V, V...      (IN)      read values; a letter answers with that variable
  IF a op b THEN stmt          op: < > = <= >= <>
  GOTO expr          (GT)      jump to a line
  GOSUB expr         (GS)      call a subroutine
  RETURN             (RT)      return from GOSUB
  DIM @(n)                     size the @ array; @(i) wraps, @(-1) is last
  RUN                          run the program from the first line
  END                          stop the program
  LIST [n[, m]]      (LS)      show the program
  CLEAR                        erase program and variables
  SAVE "name"        (SV)      write the program to a file
  LOAD "name"        (LD)      read a file through the line processor
  FILES              (FL)      list program files
  CLIPSAVE / CLIPLOAD          copy the program to/from the clipboard
  TRON / TROFF                 statement tracing on/off
  REM text, ' text             comment
  HELP                         this summary
  BYE                          leave the interpreter
`
