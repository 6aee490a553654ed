package ast

import (
	"fmt"
	"strings"
)

// Print returns a tree-like string representation of the AST for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Program:
		sb.WriteString(prefix + "Program\n")
		if n.Main != nil {
			printNode(sb, n.Main, indent+1)
		}
		for _, cls := range n.Classes {
			printNode(sb, cls, indent+1)
		}

	case *MainClass:
		sb.WriteString(fmt.Sprintf("%sMainClass: %s (args %s)\n", prefix, n.Name, n.ArgsName))
		printStatements(sb, n.Body, indent+1)

	case *ClassDecl:
		if n.Extends != "" {
			sb.WriteString(fmt.Sprintf("%sClass: %s extends %s\n", prefix, n.Name, n.Extends))
		} else {
			sb.WriteString(fmt.Sprintf("%sClass: %s\n", prefix, n.Name))
		}
		for _, f := range n.Fields {
			sb.WriteString(fmt.Sprintf("%s  Field: %s %s\n", prefix, f.Type, f.Name))
		}
		for _, m := range n.Methods {
			printNode(sb, m, indent+1)
		}

	case *MethodDecl:
		sb.WriteString(fmt.Sprintf("%sMethod: %s returns %s\n", prefix, n.Name, n.ReturnType))
		if len(n.Params) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Params:\n", prefix))
			for _, p := range n.Params {
				sb.WriteString(fmt.Sprintf("%s    %s %s\n", prefix, p.Type, p.Name))
			}
		} else {
			sb.WriteString(fmt.Sprintf("%s  Params: none\n", prefix))
		}
		printStatements(sb, n.Body, indent+1)

	case *Block:
		sb.WriteString(prefix + "Block\n")
		printStatements(sb, n.Statements, indent+1)

	case *VarDeclStmt:
		sb.WriteString(fmt.Sprintf("%sVarDecl: %s %s\n", prefix, n.Decl.Type, n.Decl.Name))

	case *IfStmt:
		sb.WriteString(prefix + "IfStmt\n")
		sb.WriteString(fmt.Sprintf("%s  Condition:\n", prefix))
		printNode(sb, n.Condition, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Then:\n", prefix))
		printNode(sb, n.Then, indent+2)
		if n.Else != nil {
			sb.WriteString(fmt.Sprintf("%s  Else:\n", prefix))
			printNode(sb, n.Else, indent+2)
		}

	case *WhileStmt:
		sb.WriteString(prefix + "WhileStmt\n")
		sb.WriteString(fmt.Sprintf("%s  Condition:\n", prefix))
		printNode(sb, n.Condition, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
		printNode(sb, n.Body, indent+2)

	case *PrintStmt:
		sb.WriteString(prefix + "PrintStmt\n")
		printNode(sb, n.Value, indent+1)

	case *AssignStmt:
		sb.WriteString(fmt.Sprintf("%sAssignStmt: %s\n", prefix, n.Target.Name))
		printNode(sb, n.Value, indent+1)

	case *ArrayAssignStmt:
		sb.WriteString(fmt.Sprintf("%sArrayAssignStmt: %s\n", prefix, n.Target.Name))
		sb.WriteString(fmt.Sprintf("%s  Index:\n", prefix))
		printNode(sb, n.Index, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Value:\n", prefix))
		printNode(sb, n.Value, indent+2)

	case *ReturnStmt:
		sb.WriteString(prefix + "ReturnStmt\n")
		if n.Value != nil {
			printNode(sb, n.Value, indent+1)
		}

	case *BinaryExpr:
		sb.WriteString(fmt.Sprintf("%sBinaryExpr: %s\n", prefix, n.Op.Symbol()))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *NotExpr:
		sb.WriteString(prefix + "NotExpr\n")
		printNode(sb, n.Operand, indent+1)

	case *IndexExpr:
		sb.WriteString(prefix + "IndexExpr\n")
		sb.WriteString(fmt.Sprintf("%s  Object:\n", prefix))
		printNode(sb, n.Object, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Index:\n", prefix))
		printNode(sb, n.Index, indent+2)

	case *LengthExpr:
		sb.WriteString(prefix + "LengthExpr\n")
		printNode(sb, n.Object, indent+1)

	case *MethodCallExpr:
		sb.WriteString(fmt.Sprintf("%sMethodCallExpr: %s\n", prefix, n.Method))
		sb.WriteString(fmt.Sprintf("%s  Object:\n", prefix))
		printNode(sb, n.Object, indent+2)
		if len(n.Args) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Args:\n", prefix))
			for _, arg := range n.Args {
				printNode(sb, arg, indent+2)
			}
		} else {
			sb.WriteString(fmt.Sprintf("%s  Args: none\n", prefix))
		}

	case *Identifier:
		sb.WriteString(fmt.Sprintf("%sIdentifier: %s\n", prefix, n.Name))

	case *ThisExpr:
		sb.WriteString(prefix + "ThisExpr\n")

	case *IntLit:
		sb.WriteString(fmt.Sprintf("%sIntLit: %s\n", prefix, n.Value))

	case *BoolLit:
		sb.WriteString(fmt.Sprintf("%sBoolLit: %t\n", prefix, n.Value))

	case *NewArrayExpr:
		sb.WriteString(prefix + "NewArrayExpr\n")
		printNode(sb, n.Size, indent+1)

	case *NewObjectExpr:
		sb.WriteString(fmt.Sprintf("%sNewObjectExpr: %s\n", prefix, n.Class))

	default:
		sb.WriteString(fmt.Sprintf("%sUnknown node type: %T\n", prefix, node))
	}
}

func printStatements(sb *strings.Builder, stmts []Statement, indent int) {
	for _, stmt := range stmts {
		printNode(sb, stmt, indent)
	}
}

// Render returns the expression as MiniJava source on a single line.
// Binary operands that are themselves binary expressions are parenthesized.
func Render(expr Expression) string {
	var sb strings.Builder
	renderExpr(&sb, expr)
	return sb.String()
}

func renderExpr(sb *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case *BinaryExpr:
		renderOperand(sb, e.Left)
		sb.WriteString(" " + e.Op.Symbol() + " ")
		renderOperand(sb, e.Right)
	case *NotExpr:
		sb.WriteString("!")
		renderOperand(sb, e.Operand)
	case *IndexExpr:
		renderOperand(sb, e.Object)
		sb.WriteString("[")
		renderExpr(sb, e.Index)
		sb.WriteString("]")
	case *LengthExpr:
		renderOperand(sb, e.Object)
		sb.WriteString(".length")
	case *MethodCallExpr:
		renderOperand(sb, e.Object)
		sb.WriteString("." + e.Method + "(")
		for i, arg := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			renderExpr(sb, arg)
		}
		sb.WriteString(")")
	case *IntLit:
		sb.WriteString(e.Value)
	case *BoolLit:
		fmt.Fprintf(sb, "%t", e.Value)
	case *Identifier:
		sb.WriteString(e.Name)
	case *ThisExpr:
		sb.WriteString("this")
	case *NewArrayExpr:
		sb.WriteString("new int[")
		renderExpr(sb, e.Size)
		sb.WriteString("]")
	case *NewObjectExpr:
		sb.WriteString("new " + e.Class + "()")
	case nil:
	default:
		fmt.Fprintf(sb, "<%T>", expr)
	}
}

func renderOperand(sb *strings.Builder, expr Expression) {
	switch expr.(type) {
	case *BinaryExpr, *NotExpr:
		sb.WriteString("(")
		renderExpr(sb, expr)
		sb.WriteString(")")
	case *NewArrayExpr:
		// new int[n][i] would read as a two-dimensional allocation
		sb.WriteString("(")
		renderExpr(sb, expr)
		sb.WriteString(")")
	default:
		renderExpr(sb, expr)
	}
}
